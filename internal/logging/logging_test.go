package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"info":    logrus.InfoLevel,
		"DEBUG":   logrus.DebugLevel,
		" warn ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"trace":   logrus.TraceLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", &buf)
	logger.WithField("op", "upload").Error("upload error: too big")

	out := buf.String()
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "op=upload")
	assert.Contains(t, out, `msg="upload error: too big"`)
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studyforge.log")
	file, err := OpenFile(path)
	require.NoError(t, err)
	_, err = file.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}
