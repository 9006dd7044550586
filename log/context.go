package log

import (
	"context"
)

type loggerKey struct{}

// NewContext context with tags logger
func NewContext(ctx context.Context, tags map[string]any) context.Context {
	return context.WithValue(ctx, loggerKey{}, &sLogger{logger: std.logger.With(tagsToFields(tags)...)})
}

// NewContextWithLogger context with logger
func NewContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Extract logger from context
func Extract(ctx context.Context) Logger {
	if ctx == nil {
		return std
	}
	if ctxLogger, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return ctxLogger
	}
	return std
}
