package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 10, 1, 8, 30, 0, 0, time.Local),
		Level:   logrus.WarnLevel,
		Message: "景点搜索失败",
		Data:    logrus.Fields{"stage": "attractions", "city": "北京"},
		Caller:  &runtime.Frame{File: "/src/app/aggregator.go", Line: 42},
	}
	entry.Logger.SetReportCaller(true)

	out, err := (&CustomFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2026-10-01 08:30:00] [WARN] [aggregator.go:42] 景点搜索失败 city=北京 stage=attractions\n", string(out))
}

func TestInitLogger_WritesFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "logs", "navigator.log")
	require.NoError(t, InitLogger(Options{Level: "debug", File: path}))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Log.Info("hello")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO]")
	assert.Contains(t, string(data), "hello")
}

func TestInitLogger_BadLevelFallsBackToInfo(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.NoError(t, InitLogger(Options{Level: "verbose"}))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
