// Package workflow holds the upload → generate → results state machine.
// Transition is pure: it takes the current State and an Event and returns the
// next State plus the Effects the caller has to carry out (network calls,
// timers, scrolling). Nothing here knows about a terminal or a browser.
package workflow

import (
	"time"

	"github.com/csheth/studyforge/internal/pdfinfo"
	"github.com/csheth/studyforge/internal/studyapi"
)

// Stage is the position in the linear workflow.
type Stage int

const (
	StageIdle Stage = iota
	StageUploading
	StageReadyToGenerate
	StageGenerating
	StageShowingResults
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageUploading:
		return "uploading"
	case StageReadyToGenerate:
		return "ready"
	case StageGenerating:
		return "generating"
	case StageShowingResults:
		return "results"
	default:
		return "unknown"
	}
}

// Panel names one of the four visible areas of the client.
type Panel string

const (
	PanelUpload     Panel = "upload"
	PanelFileInfo   Panel = "file-info"
	PanelGeneration Panel = "generation"
	PanelResults    Panel = "results"
)

const (
	// MaxFileSize is the largest upload accepted, 50 MiB.
	MaxFileSize = pdfinfo.MaxUploadSize
	// DefaultPageWindow caps the default end page after an upload.
	DefaultPageWindow = 10
	// ErrorDismissAfter is how long an error stays visible.
	ErrorDismissAfter = 5 * time.Second
)

const (
	uploadingLabel  = "Uploading PDF..."
	generatingLabel = "Generating summary..."
)

// FileInfo is what the file-info panel displays.
type FileInfo struct {
	Name      string
	PageCount int
	Size      string
}

// Form mirrors the generation form fields.
type Form struct {
	PageStart     int
	PageEnd       int
	PageEndMax    int
	AcademicLevel string
}

// Results is what the results panel displays.
type Results struct {
	Pages   string
	Level   string
	Time    string
	Summary string

	Request studyapi.GenerationRequest
	Result  studyapi.GenerationResult
}

// Overlay is the error banner. Seq increases with every shown error so a
// dismissal scheduled for an older error cannot hide a newer one.
type Overlay struct {
	Message string
	Visible bool
	Seq     int
}

// State is the whole client state. Treat values as immutable: Transition
// returns a new State instead of mutating pointers it was given.
type State struct {
	Stage    Stage
	Document *studyapi.Document
	FileInfo FileInfo
	Form     Form
	Results  *Results
	Error    Overlay

	// Uploading is the file in flight while Stage is StageUploading.
	Uploading *pdfinfo.File
	// Loading is the pending-indicator text, empty when nothing is pending.
	Loading string
	// resume is where a failed upload returns to.
	resume Stage
}

// NewState returns the initial Idle state with the form defaults.
func NewState() State {
	return State{
		Stage: StageIdle,
		Form: Form{
			PageStart:     1,
			PageEnd:       DefaultPageWindow,
			AcademicLevel: studyapi.LevelUndergraduate,
		},
	}
}

// Busy reports whether a request is in flight.
func (s State) Busy() bool {
	return s.Stage == StageUploading || s.Stage == StageGenerating
}

// Visible reports whether a panel is shown in this state.
func (s State) Visible(p Panel) bool {
	switch p {
	case PanelUpload:
		return true
	case PanelFileInfo:
		return s.Document != nil
	case PanelGeneration:
		return s.Document != nil && s.Stage != StageShowingResults
	case PanelResults:
		return s.Stage == StageShowingResults && s.Results != nil
	default:
		return false
	}
}

// FormVisible reports whether the generation form accepts input. The form
// is hidden while a generation is pending, which is the only guard against
// overlapping submissions.
func (s State) FormVisible() bool {
	return s.Visible(PanelGeneration) && s.Stage == StageReadyToGenerate
}
