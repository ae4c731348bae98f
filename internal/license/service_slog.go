package license

import (
	"context"
	"log/slog"
)

// Structured logging helpers. Every lifecycle log line carries the
// operation name so log queries can slice by operation.

func (s *Service) logInfo(ctx context.Context, operation, message string, attrs ...slog.Attr) {
	s.log(ctx, slog.LevelInfo, operation, message, attrs...)
}

func (s *Service) logWarn(ctx context.Context, operation, message string, attrs ...slog.Attr) {
	s.log(ctx, slog.LevelWarn, operation, message, attrs...)
}

func (s *Service) log(ctx context.Context, level slog.Level, operation, message string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	all := make([]slog.Attr, 0, len(attrs)+1)
	all = append(all, slog.String("operation", operation))
	all = append(all, attrs...)
	s.logger.LogAttrs(ctx, level, message, all...)
}
