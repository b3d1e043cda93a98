package workflow

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/csheth/studyforge/internal/studyapi"
)

// Backend is the part of the API client the workflow calls.
type Backend interface {
	UploadFile(ctx context.Context, path string) (*studyapi.Document, error)
	GenerateSummary(ctx context.Context, documentID studyapi.DocumentID, pageStart, pageEnd int, academicLevel string) (*studyapi.GenerationResult, error)
}

// Driver runs the state machine synchronously against a Backend, without a
// UI. Network effects are performed inline; dismissal timers and scrolling
// are dropped, so an error stays visible until the next transition clears it.
type Driver struct {
	backend Backend
	log     logrus.FieldLogger
	state   State
}

// NewDriver returns a Driver in the initial state.
func NewDriver(backend Backend, logger logrus.FieldLogger) *Driver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Driver{backend: backend, log: logger, state: NewState()}
}

// State returns the current state.
func (d *Driver) State() State {
	return d.state
}

// Dispatch applies ev and every follow-up event produced by the effects, and
// returns the state once nothing is pending.
func (d *Driver) Dispatch(ctx context.Context, ev Event) State {
	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		prev := d.state.Stage
		state, effects := Transition(d.state, next)
		d.state = state
		if state.Stage != prev {
			d.log.WithFields(logrus.Fields{"from": prev.String(), "to": state.Stage.String()}).Debug("workflow stage changed")
		}
		for _, effect := range effects {
			if follow := d.perform(ctx, effect); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
	return d.state
}

func (d *Driver) perform(ctx context.Context, effect Effect) Event {
	switch eff := effect.(type) {
	case StartUpload:
		doc, err := d.backend.UploadFile(ctx, eff.File.Path)
		if err != nil {
			return UploadFailed{Err: err}
		}
		return UploadSucceeded{Document: *doc}
	case StartGenerate:
		req := eff.Request
		result, err := d.backend.GenerateSummary(ctx, req.DocumentID, req.PageStart, req.PageEnd, req.AcademicLevel)
		if err != nil {
			return GenerateFailed{Err: err}
		}
		return GenerateSucceeded{Request: req, Result: *result}
	default:
		return nil
	}
}
