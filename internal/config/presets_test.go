package config

import "testing"

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("drop")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Physics.InitPosition.X != 5 || cfg.Physics.InitPosition.Y != 5 {
		t.Errorf("unexpected drop position %+v", cfg.Physics.InitPosition)
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	cfg := GetPreset("cannonball")
	cfg.Physics.Gravity = 0

	if Presets["cannonball"].Physics.Gravity != DefaultGravity {
		t.Error("mutating a preset copy changed the shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestListPresetsSorted(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}
