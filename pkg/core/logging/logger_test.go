package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/pkg/core/config"
)

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig("executor")
	cfg.Format = "text"
	cfg.Console = &buf

	logger, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(out, "{executor} visible") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNewLogger_InvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"bad level", "loud", "json"},
		{"bad format", "info", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewLogger(LoggerConfig{Level: tt.level, Format: tt.format})
			if err == nil {
				t.Error("NewLogger() expected error")
			}
		})
	}
}

func TestNewLogger_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "dexcomx.log")

	cfg := FromConfig(config.Default(), "host")
	cfg.File = path
	cfg.Format = "json"
	cfg.Quiet = true

	logger, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("to file", mdwlog.Fields{"line": 1})
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"message":"to file"`) {
		t.Errorf("unexpected file content: %s", data)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.General.LogLevel = "debug"
	cfg.General.LogFile = "/tmp/x.log"

	lc := FromConfig(cfg, "cli")
	if lc.ServiceName != "cli" || lc.Level != "debug" || lc.File != "/tmp/x.log" {
		t.Errorf("FromConfig() = %+v", lc)
	}
	if lc.Rotation.MaxBackups != 5 {
		t.Errorf("Rotation.MaxBackups = %d, want 5", lc.Rotation.MaxBackups)
	}
}

func TestNewSimpleLogger(t *testing.T) {
	if NewSimpleLogger("x") == nil {
		t.Fatal("NewSimpleLogger() returned nil")
	}
}
