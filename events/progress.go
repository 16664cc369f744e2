package events

import (
	"context"
	"log/slog"
)

type Progress struct {
	Operation string
	ServiceID string
	Current   int
	Total     int
	Message   string
}

func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

type ProgressReporter interface {
	Report(p Progress)
}

type ProgressFunc func(p Progress)

func (f ProgressFunc) Report(p Progress) {
	f(p)
}

// LogProgress writes every report to logger at debug level.
func LogProgress(logger *slog.Logger) ProgressReporter {
	return ProgressFunc(func(p Progress) {
		logger.LogAttrs(
			context.Background(), slog.LevelDebug, p.Message,
			slog.String("operation", p.Operation),
			slog.String("service", p.ServiceID),
			slog.Int("current", p.Current),
			slog.Int("total", p.Total),
		)
	})
}
