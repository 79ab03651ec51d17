package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// restore puts the package loggers back to what they were before the test.
func restore(t *testing.T) {
	t.Helper()
	log, sugar := Log, Sugar
	t.Cleanup(func() {
		Log, Sugar = log, sugar
	})
}

func TestUsableBeforeInit(t *testing.T) {
	// Growth code logs deadlocks and births whether or not a command set
	// up logging.
	Debug("root died in collision deadlock", zap.Int("root", 0))
	Info("ivy born", zap.Int("triangles", 0))
	Sugar.Debugf("Config: %+v", struct{}{})
	Sync()
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level   string
		present []string
		absent  []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			restore(t)
			path := filepath.Join(t.TempDir(), "ivygen.log")

			require.NoError(t, InitWithFileConfig(tt.level, FileConfig{Path: path, MaxSizeMB: 1}, false))
			Debug("seed placed")
			Info("surface loaded")
			Warn("export skipped")
			Error("grow failed")
			Sync()

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, s := range tt.present {
				assert.Contains(t, string(data), s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, string(data), s)
			}
		})
	}
}

func TestLogRotation(t *testing.T) {
	restore(t)
	dir := t.TempDir()

	cfg := FileConfig{
		Path:       filepath.Join(dir, "grow.log"),
		MaxSizeMB:  1, // smallest lumberjack allows
		MaxBackups: 2,
		MaxAgeDays: 1,
	}
	require.NoError(t, InitWithFileConfig("debug", cfg, false))

	// About 3MB of step records
	padding := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Debugf("step %d living=%d %s", i, i%7, padding)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	rotated := 0
	for _, e := range entries {
		if e.Name() != "grow.log" && strings.HasPrefix(e.Name(), "grow-") {
			rotated++
		}
	}
	assert.Positive(t, rotated, "no rotated files in %v", entries)
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("export/ivygen.log")

	assert.Equal(t, FileConfig{
		Path:       "export/ivygen.log",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}, cfg)
}
