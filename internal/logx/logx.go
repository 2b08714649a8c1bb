package logx

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger writing to w. Stdout is left to the
// UCI protocol, so callers normally pass os.Stderr.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		return fmt.Sprintf("%-20s", fmt.Sprintf("%s:%d", short, line))
	}
	return zerolog.New(output).Level(level).With().Timestamp().Caller().Logger()
}

// ParseLevel accepts zerolog level names; an empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
