// Package logger holds the process-wide zerolog instance.
//
// Call Init once from main; every other package receives the logger through
// its constructor. Get exists for the rare spot with no injection path and
// falls back to a default JSON logger when Init was never called.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the output shape of the process logger.
type Options struct {
	// Level names the minimum level to emit: trace, debug, info, warn or
	// error. Anything else falls back to info.
	Level string
	// Pretty switches from JSON lines to a colorized console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// Init builds the process logger. The first call wins; later calls return
// the logger built by the first.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		l := build(opts)
		instance = &l
	}
	return *instance
}

// Get returns the process logger, initialising a default one if needed.
func Get() zerolog.Logger {
	return Init(Options{})
}

func build(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
