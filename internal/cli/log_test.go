package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		debug bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := newLogger(&buf, tt.level)
		logger.Debug("applied edit", "doc", "album_001")
		if got := buf.Len() > 0; got != tt.debug {
			t.Errorf("level %s: debug written = %v, want %v", tt.level, got, tt.debug)
		}
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("listening", "addr", ":8080")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("line %q does not start with a HH:MM:SS.ms timestamp", buf.String())
	}
	if !strings.Contains(buf.String(), "addr=:8080") {
		t.Errorf("line %q lacks the addr field", buf.String())
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Placed 3 blocks")

	if !regexp.MustCompile(`Placed 3 blocks \(\d+(\.\d+)?m?s\)`).MatchString(buf.String()) {
		t.Errorf("progress line = %q", buf.String())
	}
}
