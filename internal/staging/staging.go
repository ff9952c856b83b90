// Package staging implements the durable parse-to-load handoff (spec §3,
// §6): one JSON document per recipe, named by identifier, written once by
// an extraction activity and read any number of times by a load activity.
// Readers treat staged files as immutable (spec §5 "Shared resources").
package staging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pill/recipes-etl/internal/domain"
)

// Path returns the canonical staged-file path for identifier within dir.
func Path(dir string, identifier uuid.UUID) string {
	return filepath.Join(dir, identifier.String()+".json")
}

// Exists reports whether a staged file for identifier is already present,
// the retry guard extract_one uses to stay idempotent (spec §4.7
// "Idempotency").
func Exists(dir string, identifier uuid.UUID) bool {
	_, err := os.Stat(Path(dir, identifier))
	return err == nil
}

// Write serializes r to its canonical path under dir, using a
// write-to-temp-then-rename sequence so a reader never observes a
// partially written file. Returns the path written.
func Write(dir string, r *domain.Recipe) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("staging: create dir %s: %w", dir, err)
	}
	path := Path(dir, r.Identifier)

	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("staging: marshal recipe %s: %w", r.Identifier, err)
	}

	tmp, err := os.CreateTemp(dir, r.Identifier.String()+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("staging: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("staging: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("staging: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("staging: rename into place: %w", err)
	}
	return path, nil
}

// Read deserializes the staged recipe at path.
func Read(path string) (*domain.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("staging: read %s: %w", path, err)
	}
	var r domain.Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("staging: decode %s: %w", path, err)
	}
	return &r, nil
}

// ListDir returns the staged-file paths directly under dir, sorted
// lexically (stable ordering for load_folder's fan-out).
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("staging: read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}
