// Package storage persists the whole-document state records: the candidate
// profile and the personal-answer cache. Each record is a single JSON
// document rewritten atomically on save; there are no partial updates.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/auto-applier/internal/types"
)

// readDocument loads a JSON document into dst. A missing file leaves dst
// untouched and returns false.
func readDocument(path string, dst any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

// writeDocument replaces the document at path atomically via temp + rename.
func writeDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dir for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// LoadProfile reads the persisted profile document, returning an empty
// profile when none exists yet.
func LoadProfile(path string) (*types.Profile, error) {
	p := types.NewProfile()
	if _, err := readDocument(path, p); err != nil {
		return nil, err
	}
	if p.Fields == nil {
		p.Fields = make(map[string]string)
	}
	if p.ExtraFields == nil {
		p.ExtraFields = make(map[string]string)
	}
	return p, nil
}

// SaveProfile rewrites the profile document.
func SaveProfile(path string, p *types.Profile) error {
	return writeDocument(path, p)
}

// LoadAnswers reads the personal-answer cache: normalized question → answer.
func LoadAnswers(path string) (map[string]string, error) {
	answers := make(map[string]string)
	if _, err := readDocument(path, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// SaveAnswers rewrites the personal-answer cache. Callers save immediately
// after every addition so a crash never loses a remembered answer.
func SaveAnswers(path string, answers map[string]string) error {
	return writeDocument(path, answers)
}
