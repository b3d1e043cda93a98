package studyapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// MaterialSummary is the only material type the client requests.
const MaterialSummary = "summary"

// Academic levels understood by the generation endpoint.
const (
	LevelHighSchool    = "high_school"
	LevelUndergraduate = "undergraduate"
	LevelGraduate      = "graduate"
)

// AcademicLevels lists the levels in the order they are offered to the user.
var AcademicLevels = []string{LevelHighSchool, LevelUndergraduate, LevelGraduate}

// DocumentID identifies an uploaded document. The backend issues integer ids;
// the client keeps them opaque and accepts either a JSON number or string.
type DocumentID string

func (id DocumentID) String() string {
	return string(id)
}

// UnmarshalJSON accepts numeric and string encodings.
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("document id: %w", err)
		}
		*id = DocumentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("document id: %w", err)
	}
	*id = DocumentID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers so the backend can decode them
// into its integer field.
func (id DocumentID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(id))
}

// Document is the metadata record for an uploaded PDF.
type Document struct {
	ID         DocumentID `json:"document_id"`
	Filename   string     `json:"filename"`
	PageCount  int        `json:"page_count"`
	FileSize   int64      `json:"file_size"`
	UploadDate *time.Time `json:"upload_date,omitempty"`
}

// UnmarshalJSON also accepts the "id" key used by the document lookup endpoint.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var raw struct {
		plain
		AltID DocumentID `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Document(raw.plain)
	if d.ID == "" {
		d.ID = raw.AltID
	}
	return nil
}

// GenerationRequest is the body of a study material generation call.
type GenerationRequest struct {
	DocumentID    DocumentID `json:"document_id"`
	PageStart     int        `json:"page_start"`
	PageEnd       int        `json:"page_end"`
	MaterialType  string     `json:"material_type"`
	AcademicLevel string     `json:"academic_level"`
}

// GenerationResult is the generated study material.
type GenerationResult struct {
	ContentID      int    `json:"content_id,omitempty"`
	MaterialType   string `json:"material_type,omitempty"`
	Summary        string `json:"summary"`
	ModelUsed      string `json:"model_used,omitempty"`
	GenerationTime int64  `json:"generation_time"`
}

// Elapsed converts the backend's millisecond generation time.
func (r GenerationResult) Elapsed() time.Duration {
	return time.Duration(r.GenerationTime) * time.Millisecond
}

// Health is the advisory status reported by the backend.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  int64  `json:"uptime"`
}

// Content is previously generated material fetched by id.
type Content struct {
	ContentID      int             `json:"content_id"`
	MaterialType   string          `json:"material_type"`
	Content        json.RawMessage `json:"content"`
	AcademicLevel  string          `json:"academic_level"`
	Pages          string          `json:"pages"`
	ModelUsed      string          `json:"model_used"`
	GenerationTime int64           `json:"generation_time"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Summary extracts the summary text from the stored content payload, if any.
func (c Content) Summary() string {
	var payload struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(c.Content, &payload); err != nil {
		return ""
	}
	return payload.Summary
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
