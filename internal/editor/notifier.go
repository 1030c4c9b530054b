package editor

import (
	"log/slog"
)

// Notifier surfaces non-fatal outcomes to the user: save failures,
// upload results. The editing surface renders these as transient
// notifications; nothing reported here aborts the session.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that records notifications in the
// structured log. Used headless and as a fallback when no surface is
// connected.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Success(msg string) {
	n.logger.Info("notify", "level", "success", "message", msg)
}

func (n *logNotifier) Error(msg string) {
	n.logger.Warn("notify", "level", "error", "message", msg)
}
