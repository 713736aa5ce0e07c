package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var csvHeader = []string{"frame", "time", "x", "y", "vx", "vy", "contact", "frame_dt"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	Frames     int                `json:"frames"`
	Gravity    float64            `json:"gravity"`
	Dampening  float64            `json:"dampening"`
	FixedDt    float64            `json:"fixed_dt"`
	Substeps   int                `json:"substeps"`
	SimWidth   float64            `json:"sim_width"`
	SimHeight  float64            `json:"sim_height"`
	MinY       float64            `json:"min_y"`
	Bounces    int                `json:"bounces"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewMetadata fills the physics fields from c.
func NewMetadata(preset, integrator string, c dynamo.Constants) RunMetadata {
	return RunMetadata{
		Preset:     preset,
		Integrator: integrator,
		Gravity:    c.Gravity,
		Dampening:  c.Dampening,
		FixedDt:    c.FixedDt,
		Substeps:   c.Substeps,
		SimWidth:   c.SimWidth,
		SimHeight:  c.SimHeight,
		MinY:       c.MinY,
	}
}

// Sample is one row of states.csv.
type Sample struct {
	Frame    int            `json:"frame"`
	Time     float64        `json:"time"`
	Position mgl64.Vec2     `json:"position"`
	Velocity mgl64.Vec2     `json:"velocity"`
	Contact  dynamo.Contact `json:"contact"`
	FrameDt  float64        `json:"frame_dt"`
}

func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	ts := s.now()
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", runName(name), ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = ts
	meta.Frames = result.FramesRun
	meta.Bounces = result.Bounces
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

// runName keeps a run in a single directory under baseDir.
func runName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, name)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for i := range result.Positions {
		p, v := result.Positions[i], result.Velocities[i]
		row := []string{
			strconv.Itoa(i),
			formatFloat(result.Times[i]),
			formatFloat(p[0]),
			formatFloat(p[1]),
			formatFloat(v[0]),
			formatFloat(v[1]),
			strconv.Itoa(int(result.Contacts[i])),
			formatFloat(result.FrameDeltas[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// List returns stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		sample, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func parseSample(record []string) (Sample, error) {
	var (
		s    Sample
		vals [6]float64
	)

	frame, err := strconv.Atoi(record[0])
	if err != nil {
		return s, err
	}
	contact, err := strconv.Atoi(record[6])
	if err != nil {
		return s, err
	}
	for i, idx := range []int{1, 2, 3, 4, 5, 7} {
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			return s, err
		}
		vals[i] = v
	}

	s.Frame = frame
	s.Time = vals[0]
	s.Position = mgl64.Vec2{vals[1], vals[2]}
	s.Velocity = mgl64.Vec2{vals[3], vals[4]}
	s.Contact = dynamo.Contact(contact)
	s.FrameDt = vals[5]
	return s, nil
}

// SamplesToResult rebuilds the per-frame series of a stored run. Metrics and
// errors are not part of states.csv and stay empty.
func SamplesToResult(samples []Sample) *dynamo.Result {
	r := &dynamo.Result{
		Positions:   make([]mgl64.Vec2, len(samples)),
		Velocities:  make([]mgl64.Vec2, len(samples)),
		Contacts:    make([]dynamo.Contact, len(samples)),
		Times:       make([]float64, len(samples)),
		FrameDeltas: make([]float64, len(samples)),
		Metrics:     make(map[string]float64),
	}
	for i, s := range samples {
		r.Positions[i] = s.Position
		r.Velocities[i] = s.Velocity
		r.Contacts[i] = s.Contact
		r.Times[i] = s.Time
		r.FrameDeltas[i] = s.FrameDt
		r.Bounces += s.Contact.Count()
	}
	if len(samples) > 0 {
		r.FramesRun = len(samples) - 1
	}
	return r
}
