package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/csheth/studyforge/internal/studyapi"
)

// Entry is one saved generation result.
type Entry struct {
	DocumentID       string    `json:"documentId"`
	Filename         string    `json:"filename"`
	PageStart        int       `json:"pageStart"`
	PageEnd          int       `json:"pageEnd"`
	AcademicLevel    string    `json:"academicLevel"`
	MaterialType     string    `json:"materialType"`
	ContentID        int       `json:"contentId,omitempty"`
	ModelUsed        string    `json:"modelUsed,omitempty"`
	GenerationTimeMs int64     `json:"generationTimeMs"`
	Summary          string    `json:"summary"`
	SavedAt          time.Time `json:"savedAt"`
}

// NewEntry builds an entry from a finished generation.
func NewEntry(doc studyapi.Document, req studyapi.GenerationRequest, result studyapi.GenerationResult) Entry {
	materialType := result.MaterialType
	if materialType == "" {
		materialType = req.MaterialType
	}
	return Entry{
		DocumentID:       doc.ID.String(),
		Filename:         doc.Filename,
		PageStart:        req.PageStart,
		PageEnd:          req.PageEnd,
		AcademicLevel:    req.AcademicLevel,
		MaterialType:     materialType,
		ContentID:        result.ContentID,
		ModelUsed:        result.ModelUsed,
		GenerationTimeMs: result.GenerationTime,
		Summary:          result.Summary,
		SavedAt:          time.Now(),
	}
}

// Append adds entries to the history file, creating it if necessary.
func Append(path string, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	existing, err := Load(path)
	if err != nil {
		return err
	}
	return write(path, append(existing, entries...))
}

// Load returns all saved entries. A missing file is an empty history.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func write(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
