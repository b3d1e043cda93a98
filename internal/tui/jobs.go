package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type jobKind string

type jobStatus string

const (
	jobKindUpload   jobKind = "upload"
	jobKindGenerate jobKind = "generate"
	jobKindHealth   jobKind = "health"
	jobKindSave     jobKind = "save"
	jobKindDownload jobKind = "download"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	log     logrus.FieldLogger
}

func newJobBus(logger logrus.FieldLogger) *jobBus {
	return &jobBus{log: logger}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start announces the job, then runs it. Requests have no deadline of their
// own; the backend call lasts as long as the transport allows.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		payload, err := runner(context.Background())
		return jobResultEnvelope{Snapshot: b.finish(id, kind, started, err), Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}

func (b *jobBus) finish(id string, kind jobKind, started time.Time, err error) jobSnapshot {
	snapshot := jobSnapshot{
		ID:          id,
		Kind:        kind,
		StartedAt:   started,
		CompletedAt: time.Now(),
		Status:      jobStatusSucceeded,
	}
	if err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = err.Error()
	}
	snapshot.Duration = snapshot.CompletedAt.Sub(started)

	entry := b.log.WithFields(logrus.Fields{
		"job":      id,
		"status":   snapshot.Status,
		"duration": snapshot.Duration.String(),
	})
	if err != nil {
		entry.WithError(err).Warn("job finished")
	} else {
		entry.Info("job finished")
	}
	return snapshot
}

func (s jobSnapshot) badge() string {
	switch s.Status {
	case jobStatusRunning:
		return fmt.Sprintf("%s running", s.Kind)
	case jobStatusFailed:
		return fmt.Sprintf("%s failed (%s)", s.Kind, s.Duration.Round(time.Millisecond))
	default:
		return fmt.Sprintf("%s done (%s)", s.Kind, s.Duration.Round(time.Millisecond))
	}
}
