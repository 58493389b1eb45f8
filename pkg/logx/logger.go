package logx

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerOpts controls how Init configures the global logger.
type LoggerOpts struct {
	Production bool
	// Output overrides the destination; nil means stderr.
	Output io.Writer
}

var DefaultLoggerOpts = &LoggerOpts{}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

func Init(opts ...LoggerOpts) {
	o := safe(opts...)
	if o.Production {
		if o.Output != nil {
			log.Logger = zerolog.New(o.Output).With().Timestamp().Logger()
		} else {
			log.Logger = log.Logger.With().Timestamp().Logger()
		}
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
		return
	}

	cw := zerolog.NewConsoleWriter()
	if o.Output != nil {
		cw.Out = o.Output
	}
	log.Logger = zerolog.New(cw).With().Timestamp().Caller().Logger()
	log.Logger = log.Logger.Level(zerolog.DebugLevel)
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
