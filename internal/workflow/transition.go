package workflow

import (
	"github.com/csheth/studyforge/internal/studyapi"
)

// Transition applies ev to s. Events that do not apply to the current stage,
// such as a late result for a request that is no longer pending, leave the
// state unchanged.
func Transition(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case FileSelected:
		return selectFile(s, ev)
	case UploadSucceeded:
		return uploadSucceeded(s, ev)
	case UploadFailed:
		return uploadFailed(s, ev)
	case GenerateSubmitted:
		return submitGeneration(s, ev)
	case GenerateSucceeded:
		return generationSucceeded(s, ev)
	case GenerateFailed:
		return generationFailed(s, ev)
	case GenerateAnother:
		return generateAnother(s)
	case ErrorRaised:
		return showError(s, ev.Message)
	case ErrorExpired:
		if s.Error.Visible && s.Error.Seq == ev.Seq {
			return hideError(s), nil
		}
		return s, nil
	case ErrorDismissed:
		return hideError(s), nil
	default:
		return s, nil
	}
}

func selectFile(s State, ev FileSelected) (State, []Effect) {
	if s.Busy() {
		return s, nil
	}
	if err := ValidateFile(ev.File, ev.Source); err != nil {
		return showError(s, err.Error())
	}
	s = hideError(s)
	file := ev.File
	s.resume = s.Stage
	s.Stage = StageUploading
	s.Uploading = &file
	s.Loading = uploadingLabel
	return s, []Effect{StartUpload{File: file}}
}

func uploadSucceeded(s State, ev UploadSucceeded) (State, []Effect) {
	if s.Stage != StageUploading {
		return s, nil
	}
	doc := ev.Document
	s.Document = &doc
	s.FileInfo = FileInfo{
		Name:      doc.Filename,
		PageCount: doc.PageCount,
		Size:      FormatFileSize(doc.FileSize),
	}
	s.Form.PageEndMax = doc.PageCount
	s.Form.PageEnd = min(DefaultPageWindow, doc.PageCount)
	s.Results = nil
	s.Uploading = nil
	s.Loading = ""
	s.Stage = StageReadyToGenerate
	return s, nil
}

func uploadFailed(s State, ev UploadFailed) (State, []Effect) {
	if s.Stage != StageUploading {
		return s, nil
	}
	s.Uploading = nil
	s.Loading = ""
	s.Stage = s.resume
	if s.Document == nil {
		s.Stage = StageIdle
	}
	return showError(s, "Upload failed: "+errorMessage(ev.Err, "Upload failed"))
}

func submitGeneration(s State, ev GenerateSubmitted) (State, []Effect) {
	switch s.Stage {
	case StageUploading, StageGenerating, StageShowingResults:
		return s, nil
	}
	if err := ValidateRange(ev.PageStart, ev.PageEnd, s.Document); err != nil {
		return showError(s, err.Error())
	}

	req := studyapi.GenerationRequest{
		DocumentID:    s.Document.ID,
		PageStart:     ev.PageStart,
		PageEnd:       ev.PageEnd,
		MaterialType:  studyapi.MaterialSummary,
		AcademicLevel: ev.AcademicLevel,
	}
	s = hideError(s)
	s.Form.PageStart = ev.PageStart
	s.Form.PageEnd = ev.PageEnd
	s.Form.AcademicLevel = ev.AcademicLevel
	s.Stage = StageGenerating
	s.Loading = generatingLabel
	return s, []Effect{StartGenerate{Request: req}}
}

func generationSucceeded(s State, ev GenerateSucceeded) (State, []Effect) {
	if s.Stage != StageGenerating {
		return s, nil
	}
	s.Results = &Results{
		Pages:   FormatPages(ev.Request.PageStart, ev.Request.PageEnd),
		Level:   FormatAcademicLevel(ev.Request.AcademicLevel),
		Time:    FormatGenerationTime(ev.Result.GenerationTime),
		Summary: ev.Result.Summary,
		Request: ev.Request,
		Result:  ev.Result,
	}
	s.Loading = ""
	s.Stage = StageShowingResults
	return s, []Effect{ScrollTo{Panel: PanelResults}}
}

func generationFailed(s State, ev GenerateFailed) (State, []Effect) {
	if s.Stage != StageGenerating {
		return s, nil
	}
	s.Loading = ""
	s.Stage = StageReadyToGenerate
	return showError(s, "Generation failed: "+errorMessage(ev.Err, "Generation failed"))
}

func generateAnother(s State) (State, []Effect) {
	if s.Stage != StageShowingResults {
		return s, nil
	}
	s.Results = nil
	s.Stage = StageReadyToGenerate
	return s, []Effect{ScrollTo{Panel: PanelGeneration}}
}

func showError(s State, message string) (State, []Effect) {
	s.Error = Overlay{Message: message, Visible: true, Seq: s.Error.Seq + 1}
	return s, []Effect{ScheduleDismiss{Seq: s.Error.Seq, After: ErrorDismissAfter}}
}

func hideError(s State) State {
	s.Error.Visible = false
	s.Error.Message = ""
	return s
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
