package workflow

import (
	"time"

	"github.com/csheth/studyforge/internal/pdfinfo"
	"github.com/csheth/studyforge/internal/studyapi"
)

// Event is an input to Transition.
type Event interface {
	isEvent()
}

// Source tells how a file was picked.
type Source int

const (
	SourceBrowse Source = iota
	SourceDrop
)

// FileSelected is a file picked through the browse prompt or dropped.
type FileSelected struct {
	File   pdfinfo.File
	Source Source
}

// UploadSucceeded carries the document returned by the backend.
type UploadSucceeded struct {
	Document studyapi.Document
}

// UploadFailed carries the upload error.
type UploadFailed struct {
	Err error
}

// GenerateSubmitted is a form submission with the values read from the form.
type GenerateSubmitted struct {
	PageStart     int
	PageEnd       int
	AcademicLevel string
}

// GenerateSucceeded carries the result and the request that produced it.
type GenerateSucceeded struct {
	Request studyapi.GenerationRequest
	Result  studyapi.GenerationResult
}

// GenerateFailed carries the generation error.
type GenerateFailed struct {
	Err error
}

// GenerateAnother returns from the results to the form.
type GenerateAnother struct{}

// ErrorRaised shows an arbitrary message in the error overlay.
type ErrorRaised struct {
	Message string
}

// ErrorExpired is the scheduled dismissal of the overlay with sequence Seq.
type ErrorExpired struct {
	Seq int
}

// ErrorDismissed hides the overlay immediately.
type ErrorDismissed struct{}

func (FileSelected) isEvent()      {}
func (UploadSucceeded) isEvent()   {}
func (UploadFailed) isEvent()      {}
func (GenerateSubmitted) isEvent() {}
func (GenerateSucceeded) isEvent() {}
func (GenerateFailed) isEvent()    {}
func (GenerateAnother) isEvent()   {}
func (ErrorRaised) isEvent()       {}
func (ErrorExpired) isEvent()      {}
func (ErrorDismissed) isEvent()    {}

// Effect is work Transition asks the caller to perform.
type Effect interface {
	isEffect()
}

// StartUpload asks for the file to be uploaded; the outcome comes back as
// UploadSucceeded or UploadFailed.
type StartUpload struct {
	File pdfinfo.File
}

// StartGenerate asks for a generation call; the outcome comes back as
// GenerateSucceeded or GenerateFailed.
type StartGenerate struct {
	Request studyapi.GenerationRequest
}

// ScheduleDismiss asks for ErrorExpired{Seq} to be delivered after After.
type ScheduleDismiss struct {
	Seq   int
	After time.Duration
}

// ScrollTo asks for a panel to be brought into view.
type ScrollTo struct {
	Panel Panel
}

func (StartUpload) isEffect()     {}
func (StartGenerate) isEffect()   {}
func (ScheduleDismiss) isEffect() {}
func (ScrollTo) isEffect()        {}
