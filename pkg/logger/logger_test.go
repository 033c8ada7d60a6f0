package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		level     logrus.Level
		showDebug bool
	}{
		{"quiet", false, logrus.WarnLevel, false},
		{"verbose", true, logrus.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.verbose, &buf)

			if log.GetLevel() != tt.level {
				t.Errorf("level = %v, want %v", log.GetLevel(), tt.level)
			}

			log.WithField("file", "bridge.jpg").Debug("decoded")
			log.Warn("skipped video")

			out := buf.String()
			if strings.Contains(out, "decoded") != tt.showDebug {
				t.Errorf("debug line shown=%v, want %v:\n%s", !tt.showDebug, tt.showDebug, out)
			}
			if !strings.Contains(out, "skipped video") {
				t.Errorf("warning missing from output:\n%s", out)
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic
	Discard().Error("dropped")
}
