package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/studyforge/internal/history"
	"github.com/csheth/studyforge/internal/pdfinfo"
	"github.com/csheth/studyforge/internal/studyapi"
	"github.com/csheth/studyforge/internal/workflow"
)

func TestJobBusIDsIncrease(t *testing.T) {
	logger, _ := test.NewNullLogger()
	bus := newJobBus(logger)

	assert.Equal(t, "upload-1", bus.nextID(jobKindUpload))
	assert.Equal(t, "generate-2", bus.nextID(jobKindGenerate))
	assert.NotNil(t, bus.Start(jobKindHealth, healthJob(&fakeAPI{})))
}

func TestJobBusFinishLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	bus := newJobBus(logger)
	started := time.Now().Add(-time.Second)

	ok := bus.finish("upload-1", jobKindUpload, started, nil)
	assert.Equal(t, jobStatusSucceeded, ok.Status)
	assert.GreaterOrEqual(t, ok.Duration, time.Second)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "upload-1", hook.LastEntry().Data["job"])

	failed := bus.finish("generate-2", jobKindGenerate, started, errors.New("Generation failed"))
	assert.Equal(t, jobStatusFailed, failed.Status)
	assert.Equal(t, "Generation failed", failed.Err)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, failed.badge(), "generate failed")
}

func TestJobSnapshotBadge(t *testing.T) {
	running := jobSnapshot{Kind: jobKindUpload, Status: jobStatusRunning}
	assert.Equal(t, "upload running", running.badge())

	done := jobSnapshot{Kind: jobKindSave, Status: jobStatusSucceeded, Duration: 1500 * time.Millisecond}
	assert.Equal(t, "save done (1.5s)", done.badge())
}

func TestRunnersWithoutBackend(t *testing.T) {
	ctx := context.Background()

	msg, err := uploadJob(nil, pdfinfo.File{Path: "a.pdf"})(ctx)
	assert.ErrorIs(t, err, errNoBackend)
	assert.ErrorIs(t, msg.(uploadResultMsg).err, errNoBackend)

	msg, err = generateJob(nil, studyapi.GenerationRequest{PageStart: 1, PageEnd: 2})(ctx)
	assert.ErrorIs(t, err, errNoBackend)
	assert.Equal(t, 2, msg.(generateResultMsg).request.PageEnd)

	msg, err = downloadJob(nil, "https://example.com/a.pdf", workflow.SourceDrop)(ctx)
	assert.Error(t, err)
	assert.Equal(t, workflow.SourceDrop, msg.(downloadResultMsg).source)

	msg, err = healthJob(nil)(ctx)
	assert.ErrorIs(t, err, errNoBackend)
	assert.Nil(t, msg.(healthResultMsg).health)
}

func TestHealthJobReportsUnreachable(t *testing.T) {
	msg, err := healthJob(&fakeAPI{})(context.Background())
	assert.Error(t, err)
	assert.Nil(t, msg.(healthResultMsg).health)

	msg, err = healthJob(&fakeAPI{health: &studyapi.Health{Status: "healthy"}})(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", msg.(healthResultMsg).health.Status)
}

func TestSaveJobWritesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	entry := history.Entry{DocumentID: "d1", Filename: "a.pdf", PageStart: 1, PageEnd: 3, Summary: "s"}

	msg, err := saveJob(path, entry)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saveResultMsg{path: path}, msg)

	entries, err := history.Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.pdf", entries[0].Filename)
}
