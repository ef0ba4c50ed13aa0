package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
)

type traceIdKey string

// TraceIdKey is the context key under which middleware.Logger stores the
// per-request trace id.
const TraceIdKey traceIdKey = "trace-id"

// GetTraceIdOfRequest returns the trace id attached to the request context,
// or "unknown" if the logger middleware did not run.
func GetTraceIdOfRequest(c *gin.Context) string {
	traceId, ok := c.Request.Context().Value(TraceIdKey).(string)
	if !ok {
		return "unknown"
	}
	return traceId
}

// WithTraceId stores the trace id on a context.
func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, TraceIdKey, traceId)
}
