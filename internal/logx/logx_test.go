package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	var logger = NewLogger(&buf, zerolog.InfoLevel)
	logger.Debug().Msg("hidden")
	logger.Info().Int("depth", 7).Msg("search finished")
	var out = buf.String()
	if strings.Contains(out, "hidden") {
		t.Error(out)
	}
	if !strings.Contains(out, "search finished") || !strings.Contains(out, "depth=7") ||
		!strings.Contains(out, "logx_test.go") {
		t.Error(out)
	}
}

func TestParseLevel(t *testing.T) {
	var tests = []struct {
		s     string
		level zerolog.Level
		ok    bool
	}{
		{"", zerolog.InfoLevel, true},
		{"debug", zerolog.DebugLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"loud", zerolog.NoLevel, false},
	}
	for _, test := range tests {
		var level, err = ParseLevel(test.s)
		if level != test.level || (err == nil) != test.ok {
			t.Error(test.s, level, err)
		}
	}
}
