package log

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLogConfig(t *testing.T) {
	workingDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd error: %v", err)
	}
	logName := "winsec-static.log"
	logDir := filepath.Join("var", "log", "winsec")
	tests := []struct {
		cfg          LogConfig
		expectedDir  string
		expectedFile string
	}{
		{
			cfg:          LogConfig{},
			expectedDir:  workingDir,
			expectedFile: filepath.Join(workingDir, DefaultLogName),
		},
		{
			cfg:          LogConfig{LogDir: logDir},
			expectedDir:  logDir,
			expectedFile: filepath.Join(logDir, DefaultLogName),
		},
		{
			cfg:          LogConfig{LogName: logName},
			expectedDir:  workingDir,
			expectedFile: filepath.Join(workingDir, logName),
		},
		{
			cfg:          LogConfig{LogName: logName, LogDir: logDir},
			expectedDir:  logDir,
			expectedFile: filepath.Join(logDir, logName),
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Logf("%#v", test.cfg)
			dir, err := test.cfg.Dir()
			if err != nil {
				t.Fatal(err)
			}
			path, err := test.cfg.Path()
			if err != nil {
				t.Fatal(err)
			}
			if dir != test.expectedDir {
				t.Errorf("directory: expected %s but got %s", test.expectedDir, dir)
			}
			if path != test.expectedFile {
				t.Errorf("path: expected %s but got %s", test.expectedFile, path)
			}
		})
	}
}

func TestLoggerError(t *testing.T) {
	logger, err := NewLogger(LogConfig{LogDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	// nil errors are dropped, non-nil ones must not panic
	logger.Error(nil, "ignored")
	logger.Error(fmt.Errorf("boom"), "failed")
	logger.WithFields(map[string]interface{}{"path": `C:\Windows`}).Logf("scanned %d objects", 1)
}
