package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/studyforge/internal/pdfinfo"
	"github.com/csheth/studyforge/internal/studyapi"
)

func pdfFile(size int64) pdfinfo.File {
	return pdfinfo.File{Name: "x.pdf", Path: "/tmp/x.pdf", MediaType: pdfinfo.MediaTypePDF, Size: size}
}

func sampleDocument() studyapi.Document {
	return studyapi.Document{ID: "d1", Filename: "x.pdf", PageCount: 20, FileSize: 123456}
}

func readyState(t *testing.T) State {
	t.Helper()
	s, _ := Transition(NewState(), FileSelected{File: pdfFile(1024)})
	s, _ = Transition(s, UploadSucceeded{Document: sampleDocument()})
	require.Equal(t, StageReadyToGenerate, s.Stage)
	return s
}

func dismissEffect(t *testing.T, effects []Effect) ScheduleDismiss {
	t.Helper()
	require.Len(t, effects, 1)
	dismiss, ok := effects[0].(ScheduleDismiss)
	require.True(t, ok, "expected ScheduleDismiss, got %T", effects[0])
	return dismiss
}

func TestFileSelectionRejectsNonPDF(t *testing.T) {
	for _, mediaType := range []string{"", "text/plain", "image/png", "application/x-pdf"} {
		start := NewState()
		file := pdfinfo.File{Name: "notes", MediaType: mediaType, Size: 10}

		s, effects := Transition(start, FileSelected{File: file, Source: SourceBrowse})
		assert.Equal(t, StageIdle, s.Stage, mediaType)
		assert.Nil(t, s.Document)
		assert.True(t, s.Error.Visible)
		assert.Equal(t, MsgOnlyPDF, s.Error.Message)
		dismissEffect(t, effects)

		s, _ = Transition(start, FileSelected{File: file, Source: SourceDrop})
		assert.Equal(t, MsgDropPDF, s.Error.Message)
		assert.Equal(t, StageIdle, s.Stage)
	}
}

func TestFileSelectionRejectsOversizedPDF(t *testing.T) {
	for _, size := range []int64{MaxFileSize + 1, 2 * MaxFileSize} {
		s, effects := Transition(NewState(), FileSelected{File: pdfFile(size)})
		assert.Equal(t, StageIdle, s.Stage)
		assert.Equal(t, MsgFileTooLarge, s.Error.Message)
		for _, effect := range effects {
			_, isUpload := effect.(StartUpload)
			assert.False(t, isUpload, "oversized file must not be uploaded")
		}
	}

	s, effects := Transition(NewState(), FileSelected{File: pdfFile(MaxFileSize)})
	assert.Equal(t, StageUploading, s.Stage)
	require.Len(t, effects, 1)
	assert.IsType(t, StartUpload{}, effects[0])
}

func TestUploadSuccessPopulatesForm(t *testing.T) {
	s, effects := Transition(NewState(), FileSelected{File: pdfFile(1024), Source: SourceDrop})
	require.Equal(t, StageUploading, s.Stage)
	assert.Equal(t, uploadingLabel, s.Loading)
	require.NotNil(t, s.Uploading)
	assert.Equal(t, []Effect{StartUpload{File: pdfFile(1024)}}, effects)

	s, effects = Transition(s, UploadSucceeded{Document: sampleDocument()})
	assert.Empty(t, effects)
	assert.Equal(t, StageReadyToGenerate, s.Stage)
	require.NotNil(t, s.Document)
	assert.Equal(t, studyapi.DocumentID("d1"), s.Document.ID)
	assert.Equal(t, FileInfo{Name: "x.pdf", PageCount: 20, Size: "120.56 KB"}, s.FileInfo)
	assert.Equal(t, 10, s.Form.PageEnd)
	assert.Equal(t, 20, s.Form.PageEndMax)
	assert.Empty(t, s.Loading)
	assert.Nil(t, s.Uploading)
	assert.True(t, s.Visible(PanelFileInfo))
	assert.True(t, s.Visible(PanelGeneration))
	assert.True(t, s.FormVisible())
	assert.False(t, s.Visible(PanelResults))
}

func TestUploadSuccessClampsEndPageToShortDocuments(t *testing.T) {
	s, _ := Transition(NewState(), FileSelected{File: pdfFile(1024)})
	doc := sampleDocument()
	doc.PageCount = 4
	s, _ = Transition(s, UploadSucceeded{Document: doc})
	assert.Equal(t, 4, s.Form.PageEnd)
	assert.Equal(t, 4, s.Form.PageEndMax)
}

func TestUploadFailureKeepsDocumentNil(t *testing.T) {
	s, _ := Transition(NewState(), FileSelected{File: pdfFile(1024)})
	s, effects := Transition(s, UploadFailed{Err: &studyapi.RequestError{Message: "too big"}})

	assert.Equal(t, StageIdle, s.Stage)
	assert.Nil(t, s.Document)
	assert.Equal(t, "Upload failed: too big", s.Error.Message)
	assert.True(t, s.Error.Visible)
	assert.Empty(t, s.Loading)
	dismissEffect(t, effects)
}

func TestUploadFailureKeepsPreviousDocument(t *testing.T) {
	s := readyState(t)
	s, _ = Transition(s, FileSelected{File: pdfFile(2048)})
	require.Equal(t, StageUploading, s.Stage)

	s, _ = Transition(s, UploadFailed{Err: errors.New("connection refused")})
	assert.Equal(t, StageReadyToGenerate, s.Stage)
	require.NotNil(t, s.Document)
	assert.Equal(t, studyapi.DocumentID("d1"), s.Document.ID)
	assert.Equal(t, "Upload failed: connection refused", s.Error.Message)
}

func TestNewUploadReplacesDocument(t *testing.T) {
	s := readyState(t)
	s, _ = Transition(s, FileSelected{File: pdfFile(2048)})
	s, _ = Transition(s, UploadSucceeded{Document: studyapi.Document{ID: "d2", Filename: "y.pdf", PageCount: 3, FileSize: 2048}})

	require.NotNil(t, s.Document)
	assert.Equal(t, studyapi.DocumentID("d2"), s.Document.ID)
	assert.Equal(t, "y.pdf", s.FileInfo.Name)
	assert.Equal(t, 3, s.Form.PageEnd)
}

func TestPageRangeValidation(t *testing.T) {
	tests := []struct {
		start, end, count int
		want              string
	}{
		{1, 5, 20, ""},
		{1, 1, 1, ""},
		{20, 20, 20, ""},
		{0, 5, 20, MsgInvalidRange},
		{-3, 5, 20, MsgInvalidRange},
		{6, 5, 20, MsgInvalidRange},
		{1, 21, 20, "End page cannot exceed 20"},
		{5, 50, 7, "End page cannot exceed 7"},
	}
	for _, tt := range tests {
		doc := studyapi.Document{ID: "d1", PageCount: tt.count}
		err := ValidateRange(tt.start, tt.end, &doc)
		if tt.want == "" {
			assert.NoError(t, err, "(%d, %d, %d)", tt.start, tt.end, tt.count)
			continue
		}
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "(%d, %d, %d)", tt.start, tt.end, tt.count)
		assert.Equal(t, tt.want, verr.Message)
	}

	assert.EqualError(t, ValidateRange(1, 1, nil), MsgNoDocument)
}

func TestPageRangeProperty(t *testing.T) {
	s := readyState(t)
	for start := -1; start <= 22; start++ {
		for end := -1; end <= 22; end++ {
			next, effects := Transition(s, GenerateSubmitted{PageStart: start, PageEnd: end, AcademicLevel: studyapi.LevelGraduate})
			valid := start >= 1 && end >= start && end <= 20
			if valid {
				assert.Equal(t, StageGenerating, next.Stage)
				require.Len(t, effects, 1)
				assert.IsType(t, StartGenerate{}, effects[0])
				continue
			}
			assert.Equal(t, StageReadyToGenerate, next.Stage, "(%d, %d)", start, end)
			assert.True(t, next.Error.Visible)
			dismissEffect(t, effects)
		}
	}
}

func TestSubmitWithoutDocument(t *testing.T) {
	s, _ := Transition(NewState(), GenerateSubmitted{PageStart: 1, PageEnd: 2})
	assert.Equal(t, StageIdle, s.Stage)
	assert.Equal(t, MsgNoDocument, s.Error.Message)
}

func TestGenerationFlow(t *testing.T) {
	s := readyState(t)
	s, _ = Transition(s, ErrorRaised{Message: "stale"})
	require.True(t, s.Error.Visible)

	s, effects := Transition(s, GenerateSubmitted{PageStart: 1, PageEnd: 5, AcademicLevel: studyapi.LevelUndergraduate})
	assert.Equal(t, StageGenerating, s.Stage)
	assert.False(t, s.Error.Visible, "submission clears the overlay")
	assert.False(t, s.FormVisible(), "form is hidden while generating")
	assert.True(t, s.Visible(PanelGeneration))
	assert.Equal(t, generatingLabel, s.Loading)
	want := studyapi.GenerationRequest{
		DocumentID:    "d1",
		PageStart:     1,
		PageEnd:       5,
		MaterialType:  "summary",
		AcademicLevel: "undergraduate",
	}
	assert.Equal(t, []Effect{StartGenerate{Request: want}}, effects)

	again, effects := Transition(s, GenerateSubmitted{PageStart: 1, PageEnd: 5})
	assert.Equal(t, s, again, "submission while generating is ignored")
	assert.Empty(t, effects)

	s, effects = Transition(s, GenerateSucceeded{Request: want, Result: studyapi.GenerationResult{Summary: "Cells divide.", GenerationTime: 900}})
	assert.Equal(t, []Effect{ScrollTo{Panel: PanelResults}}, effects)
	assert.Equal(t, StageShowingResults, s.Stage)
	require.NotNil(t, s.Results)
	assert.Equal(t, "1-5", s.Results.Pages)
	assert.Equal(t, "Undergraduate", s.Results.Level)
	assert.Equal(t, "900ms", s.Results.Time)
	assert.Equal(t, "Cells divide.", s.Results.Summary)
	assert.True(t, s.Visible(PanelResults))
	assert.False(t, s.Visible(PanelGeneration))

	s, effects = Transition(s, GenerateAnother{})
	assert.Equal(t, []Effect{ScrollTo{Panel: PanelGeneration}}, effects)
	assert.Equal(t, StageReadyToGenerate, s.Stage)
	assert.Nil(t, s.Results)
	require.NotNil(t, s.Document, "document is retained for re-generation")
	assert.True(t, s.FormVisible())
	assert.Equal(t, 5, s.Form.PageEnd)
}

func TestGenerationFailureReturnsToForm(t *testing.T) {
	s := readyState(t)
	s, _ = Transition(s, GenerateSubmitted{PageStart: 2, PageEnd: 4, AcademicLevel: studyapi.LevelHighSchool})
	s, effects := Transition(s, GenerateFailed{Err: &studyapi.RequestError{Message: "Generation failed"}})

	assert.Equal(t, StageReadyToGenerate, s.Stage)
	assert.Equal(t, "Generation failed: Generation failed", s.Error.Message)
	assert.True(t, s.FormVisible())
	assert.Empty(t, s.Loading)
	dismissEffect(t, effects)
}

func TestLateResultsAreIgnored(t *testing.T) {
	s := readyState(t)
	same, effects := Transition(s, UploadSucceeded{Document: studyapi.Document{ID: "other"}})
	assert.Equal(t, s, same)
	assert.Empty(t, effects)

	same, _ = Transition(s, GenerateSucceeded{})
	assert.Equal(t, s, same)
	same, _ = Transition(s, GenerateAnother{})
	assert.Equal(t, s, same)
}

func TestFileSelectionIgnoredWhileBusy(t *testing.T) {
	s, _ := Transition(NewState(), FileSelected{File: pdfFile(1)})
	same, effects := Transition(s, FileSelected{File: pdfFile(2)})
	assert.Equal(t, s, same)
	assert.Empty(t, effects)
}

func TestErrorOverlayDismissal(t *testing.T) {
	s, effects := Transition(NewState(), ErrorRaised{Message: "first"})
	first := dismissEffect(t, effects)
	assert.Equal(t, ErrorDismissAfter, first.After)

	s, effects = Transition(s, ErrorRaised{Message: "second"})
	second := dismissEffect(t, effects)
	assert.Greater(t, second.Seq, first.Seq)

	s, _ = Transition(s, ErrorExpired{Seq: first.Seq})
	assert.True(t, s.Error.Visible, "an older timer must not hide a newer error")
	assert.Equal(t, "second", s.Error.Message)

	s, _ = Transition(s, ErrorExpired{Seq: second.Seq})
	assert.False(t, s.Error.Visible)

	s, effects = Transition(s, ErrorRaised{Message: "third"})
	third := dismissEffect(t, effects)
	s, _ = Transition(s, ErrorDismissed{})
	assert.False(t, s.Error.Visible)
	after, _ := Transition(s, ErrorExpired{Seq: third.Seq})
	assert.Equal(t, s, after, "expiry after manual dismissal is a no-op")
}
