package service

import "log/slog"

// Notifier receives the user-facing outcome of booking operations. It is a
// side channel: the result of an operation never depends on it.
type Notifier interface {
	Success(message string)
	Failure(message string, err error)
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier. A nil logger discards output.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogNotifier{logger: logger}
}

// Success logs a confirmation at info level.
func (n *LogNotifier) Success(message string) {
	n.logger.Info(message, "notification", "success")
}

// Failure logs a failed operation and its cause at warn level.
func (n *LogNotifier) Failure(message string, err error) {
	n.logger.Warn(message, "notification", "failure", "error", err)
}
