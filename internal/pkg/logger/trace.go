package logger

import (
	"context"
	log "log/slog"
)

type traceKey struct{}

// TraceIDAttr trace_id 在日志输出中的属性名
const TraceIDAttr = "trace_id"

// WithTraceID 将 trace_id 写入 ctx
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// TraceIDFrom 从 ctx 读取 trace_id，未设置时返回空串
func TraceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// ContextHandler 包装器，日志记录时自动附加 trace_id
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if id := TraceIDFrom(ctx); id != "" {
			r.AddAttrs(log.String(TraceIDAttr, id))
		}
	}
	return h.Handler.Handle(ctx, r)
}
