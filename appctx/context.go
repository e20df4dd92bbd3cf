package appctx

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the shared type for all context keys in this codebase.
// Keeping it in a tiny package avoids import cycles (config <-> utils).
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	ContextKeyUsername      = ContextKey("Username")
	ContextKeyUserId        = ContextKey("UserId")
	ContextKeyCorrelationId = ContextKey("CorrelationId")
)

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func GetInt(ctx context.Context, key ContextKey) (int, bool) {
	v, ok := ctx.Value(key).(int)
	return v, ok
}

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// CorrelationId returns the request correlation id, minting one when the
// caller did not carry one in.
func CorrelationId(ctx context.Context) string {
	if ctx != nil {
		if v, ok := GetString(ctx, ContextKeyCorrelationId); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
