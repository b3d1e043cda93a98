package workflow

import (
	"fmt"

	"github.com/csheth/studyforge/internal/pdfinfo"
	"github.com/csheth/studyforge/internal/studyapi"
)

// Messages shown for client-side rule violations.
const (
	MsgDropPDF      = "Please drop a PDF file"
	MsgOnlyPDF      = "Only PDF files are allowed"
	MsgFileTooLarge = "File size exceeds 50MB limit"
	MsgNoDocument   = "No document uploaded"
	MsgInvalidRange = "Invalid page range"
)

// ValidationError is a rule violation caught before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateFile checks the declared media type, then the size limit.
func ValidateFile(file pdfinfo.File, source Source) error {
	if !file.IsPDF() {
		if source == SourceDrop {
			return &ValidationError{Message: MsgDropPDF}
		}
		return &ValidationError{Message: MsgOnlyPDF}
	}
	if file.Size > MaxFileSize {
		return &ValidationError{Message: MsgFileTooLarge}
	}
	return nil
}

// ValidateRange checks 1 <= start <= end <= doc.PageCount.
func ValidateRange(pageStart, pageEnd int, doc *studyapi.Document) error {
	if doc == nil {
		return &ValidationError{Message: MsgNoDocument}
	}
	if pageStart < 1 || pageEnd < pageStart {
		return &ValidationError{Message: MsgInvalidRange}
	}
	if pageEnd > doc.PageCount {
		return &ValidationError{Message: fmt.Sprintf("End page cannot exceed %d", doc.PageCount)}
	}
	return nil
}
