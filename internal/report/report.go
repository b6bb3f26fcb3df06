// Package report persists and renders match reports. The matcher emits a
// single MatchReport document; everything here is a view over it (JSON on
// disk, CSV, XLSX, an HTML viewer, and terminal tables).
package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/capitolstream/hearings-cli/internal/model"
)

// DefaultFilename is the canonical on-disk name for a match report.
const DefaultFilename = "matches.json"

// WriteJSON writes the report as indented JSON, creating parent
// directories as needed.
func WriteJSON(r *model.MatchReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "report: create output dir")
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "report: write file")
	}
	return nil
}

// LoadJSON reads a report previously written by WriteJSON.
func LoadJSON(path string) (*model.MatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "report: read file")
	}
	var r model.MatchReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "report: parse file")
	}
	return &r, nil
}
