package logging

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Level:   logrus.WarnLevel,
		Time:    time.Date(2013, 10, 13, 7, 30, 0, 0, time.UTC),
		Message: "Invalid row",
		Data:    logrus.Fields{"page": 3, "gender": "W"},
	}

	out, err := LineFormatter{}.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[WARNING:2013-10-13 07:30:00 UTC] Invalid row gender=W page=3\n", string(out))
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.log")

	log, f, err := New(path, "info")
	require.NoError(t, err)

	log.Debug("hidden")
	log.WithField("cells", 8).Warn("Invalid row")
	log.Error("fetch failed")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := regexp.MustCompile(`(?m)^\[(\w+):[^\]]+\] (.*)$`).FindAllStringSubmatch(string(data), -1)
	require.Len(t, lines, 2)
	assert.Equal(t, "WARNING", lines[0][1])
	assert.Equal(t, "Invalid row cells=8", lines[0][2])
	assert.Equal(t, "ERROR", lines[1][1])
}

func TestNewAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0644))

	log, f, err := New(path, "info")
	require.NoError(t, err)
	log.Info("next run")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "previous run\n")
	assert.Contains(t, string(data), "next run")
}

func TestNewErrors(t *testing.T) {
	_, _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	require.Error(t, err)

	_, _, err = New(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), "info")
	require.Error(t, err)
}
