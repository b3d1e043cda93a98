package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/studyforge/internal/history"
	"github.com/csheth/studyforge/internal/pdfinfo"
	"github.com/csheth/studyforge/internal/studyapi"
	"github.com/csheth/studyforge/internal/workflow"
)

var errNoBackend = errors.New("no backend configured")

type uploadResultMsg struct {
	doc *studyapi.Document
	err error
}

type generateResultMsg struct {
	request studyapi.GenerationRequest
	result  *studyapi.GenerationResult
	err     error
}

type downloadResultMsg struct {
	path   string
	source workflow.Source
	err    error
}

type healthResultMsg struct {
	health *studyapi.Health
}

type saveResultMsg struct {
	path string
	err  error
}

type errorExpiredMsg struct {
	seq int
}

func uploadJob(api API, file pdfinfo.File) jobRunner {
	path := file.Path
	return func(ctx context.Context) (tea.Msg, error) {
		if api == nil {
			return uploadResultMsg{err: errNoBackend}, errNoBackend
		}
		doc, err := api.UploadFile(ctx, path)
		if err != nil {
			return uploadResultMsg{err: err}, err
		}
		return uploadResultMsg{doc: doc}, nil
	}
}

func generateJob(api API, req studyapi.GenerationRequest) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if api == nil {
			return generateResultMsg{request: req, err: errNoBackend}, errNoBackend
		}
		result, err := api.GenerateSummary(ctx, req.DocumentID, req.PageStart, req.PageEnd, req.AcademicLevel)
		if err != nil {
			return generateResultMsg{request: req, err: err}, err
		}
		return generateResultMsg{request: req, result: result}, nil
	}
}

func downloadJob(downloader Downloader, rawURL string, source workflow.Source) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if downloader == nil {
			err := errors.New("downloads are not configured")
			return downloadResultMsg{source: source, err: err}, err
		}
		path, err := downloader.Fetch(ctx, rawURL)
		if err != nil {
			return downloadResultMsg{source: source, err: err}, err
		}
		return downloadResultMsg{path: path, source: source}, nil
	}
}

func healthJob(api API) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if api == nil {
			return healthResultMsg{}, errNoBackend
		}
		health := api.HealthCheck(ctx)
		if health == nil {
			return healthResultMsg{}, errors.New("backend unreachable")
		}
		return healthResultMsg{health: health}, nil
	}
}

func saveJob(path string, entry history.Entry) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if err := history.Append(path, entry); err != nil {
			return saveResultMsg{path: path, err: err}, err
		}
		return saveResultMsg{path: path}, nil
	}
}
