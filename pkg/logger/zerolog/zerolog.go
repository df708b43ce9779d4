package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Config controls how log lines are written
type Config struct {
	Level      string
	TimeFormat string
	Colored    bool
	JSON       bool
	Out        io.Writer
}

// New builds a zerolog logger. Console output is column aligned and colored
// with goterm unless JSON is requested.
func New(cfg Config) (*zerolog.Logger, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	if cfg.JSON {
		zl := zerolog.New(out).With().Timestamp().Logger()
		return &zl, nil
	}

	console := zerolog.ConsoleWriter{
		Out:             out,
		NoColor:         !cfg.Colored,
		TimeFormat:      cfg.TimeFormat,
		FormatLevel:     formatLevel,
		FormatMessage:   formatMessage,
		FormatCaller:    formatCaller,
		FormatTimestamp: func(i any) string { return formatTimestamp(i, cfg.TimeFormat) },
	}

	zl := zerolog.New(console).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()

	return &zl, nil
}

func formatLevel(i any) string {
	level, _ := i.(string)

	switch level {
	case zerolog.LevelTraceValue, zerolog.LevelDebugValue:
		return term.Cyanf("[%s]", strings.ToUpper(level[:3]))
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WAR]")
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return term.Redf("[%s]", strings.ToUpper(level[:3]))
	default:
		return term.Whitef("[UNK]")
	}
}

func formatMessage(i any) string {
	const width = 60

	msg, ok := i.(string)
	if !ok || msg == "" {
		return ">"
	}

	if len(msg) < width {
		msg += strings.Repeat(" ", width-len(msg))
	}

	return term.Whitef("> %s", msg)
}

func formatCaller(i any) string {
	fname, ok := i.(string)
	if !ok || fname == "" {
		return ""
	}

	return term.Yellowf("[%-22s]", filepath.Base(fname))
}

func formatTimestamp(i any, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}

	if ts, err := time.Parse(zerolog.TimeFieldFormat, raw); err == nil && layout != "" {
		raw = ts.In(time.Local).Format(layout)
	}

	return term.Cyanf("[%s]", raw)
}
