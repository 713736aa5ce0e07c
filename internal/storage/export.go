package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Samples []Sample `json:"samples"`
}

// ExportJSON writes a stored run, metadata and every sample, as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Samples: samples})
}
