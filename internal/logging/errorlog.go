package logging

import "log/slog"

// ErrorLogger is anything that accepts a titled error message
type ErrorLogger interface {
	LogError(title, message string)
}

// ErrorLog reports absorbed failures through slog
type ErrorLog struct {
	Logger *slog.Logger
}

// LogError logs message at error level
func (e ErrorLog) LogError(title, message string) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(message, "title", title)
}

// Tee fans each error out to every logger in order
type Tee []ErrorLogger

// LogError forwards to each logger
func (t Tee) LogError(title, message string) {
	for _, l := range t {
		l.LogError(title, message)
	}
}
