package services

import (
	"io"
	"os"

	"etalase/pkg/logx"

	"github.com/rs/zerolog"
)

// Security event types written to the audit log.
const (
	EventLoginSuccess = "admin_login_success"
	EventLoginFailure = "admin_login_failure"
	EventLogout       = "admin_logout"
)

// SecurityLogger appends admin gate events to a dedicated log file.
type SecurityLogger struct {
	closer io.Closer
	log    zerolog.Logger
}

// NewSecurityLogger opens path for appending. It returns nil when the file
// can't be opened; a nil logger drops events.
func NewSecurityLogger(path string) *SecurityLogger {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logx.Error().Err(err).Str("path", path).Msg("security log could not be opened")
		return nil
	}
	return &SecurityLogger{
		closer: file,
		log:    zerolog.New(file).With().Timestamp().Logger(),
	}
}

// NewSecurityLoggerTo writes events to w. Used when no file is wanted.
func NewSecurityLoggerTo(w io.Writer) *SecurityLogger {
	return &SecurityLogger{log: zerolog.New(w).With().Timestamp().Logger()}
}

// LogSecurityEvent records one event.
func (sl *SecurityLogger) LogSecurityEvent(eventType, details, ipAddress string) {
	if sl == nil {
		return
	}
	sl.log.Info().Str("event", eventType).Str("ip", ipAddress).Msg(details)
}

func (sl *SecurityLogger) Close() {
	if sl != nil && sl.closer != nil {
		sl.closer.Close()
	}
}
