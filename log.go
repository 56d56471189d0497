package glubpage

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

var (
	zapCtxKey = ctxKey{}
)

// Logger returns the logger stored in ctx, or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	val := ctx.Value(zapCtxKey)
	if val == nil {
		return zap.NewNop()
	}
	logger, ok := val.(*zap.Logger)
	if !ok || logger == nil {
		return zap.NewNop()
	}
	return logger
}

func LoggingContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, zapCtxKey, logger)
}
