package zerolog

import (
	"fmt"

	"github.com/raykavin/stockview/pkg/logger"
	"github.com/rs/zerolog"
)

// Adapter exposes a zerolog.Logger through logger.Logger
type Adapter struct {
	zl *zerolog.Logger
}

var _ logger.Logger = (*Adapter)(nil)

func NewAdapter(zl *zerolog.Logger) *Adapter {
	return &Adapter{zl: zl}
}

// Nop returns an adapter that discards everything
func Nop() *Adapter {
	zl := zerolog.Nop()
	return &Adapter{zl: &zl}
}

func (a *Adapter) GetLevel() logger.Level {
	return toLevel(a.zl.GetLevel())
}

func (a *Adapter) SetLevel(level logger.Level) {
	zerolog.SetGlobalLevel(toZerologLevel(level))
}

func (a *Adapter) Trace(args ...any) { a.zl.Trace().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Debug(args ...any) { a.zl.Debug().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Info(args ...any)  { a.zl.Info().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Warn(args ...any)  { a.zl.Warn().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Error(args ...any) { a.zl.Error().Msg(fmt.Sprint(args...)) }
func (a *Adapter) Fatal(args ...any) { a.zl.Fatal().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Debugf(format string, args ...any) { a.zl.Debug().Msgf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.zl.Info().Msgf(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.zl.Warn().Msgf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.zl.Error().Msgf(format, args...) }

func (a *Adapter) WithError(err error) logger.Logger {
	zl := a.zl.With().Err(err).Logger()
	return &Adapter{zl: &zl}
}

func (a *Adapter) WithField(key string, value any) logger.Logger {
	zl := a.zl.With().Interface(key, value).Logger()
	return &Adapter{zl: &zl}
}

func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	zl := a.zl.With().Fields(fields).Logger()
	return &Adapter{zl: &zl}
}

var levels = map[zerolog.Level]logger.Level{
	zerolog.Disabled:   logger.Disabled,
	zerolog.NoLevel:    logger.NoLevel,
	zerolog.TraceLevel: logger.TraceLevel,
	zerolog.DebugLevel: logger.DebugLevel,
	zerolog.InfoLevel:  logger.InfoLevel,
	zerolog.WarnLevel:  logger.WarnLevel,
	zerolog.ErrorLevel: logger.ErrorLevel,
	zerolog.FatalLevel: logger.FatalLevel,
}

// toLevel converts zerolog.Level to logger.Level.
func toLevel(level zerolog.Level) logger.Level {
	if l, ok := levels[level]; ok {
		return l
	}
	return logger.NoLevel
}

// toZerologLevel converts logger.Level to zerolog.Level.
func toZerologLevel(level logger.Level) zerolog.Level {
	for zl, l := range levels {
		if l == level {
			return zl
		}
	}
	return zerolog.NoLevel
}
