package instrumentation

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ToolInvocation is one audited MCP tool call.
type ToolInvocation struct {
	// ID is a random UUID shared by the audit record and nothing else, so
	// a record can be quoted without leaking arguments.
	ID   string
	Tool string

	ServiceName string
	Operation   string

	// Arguments carry calendar names and event titles. They reach the log
	// only when the AuditLogger includes arguments.
	Arguments map[string]any

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	// Outcome is the classified result, e.g. "not_found".
	Outcome string
	Error   string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts timing a call to tool.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		ID:        uuid.NewString(),
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithService records the remote service and operation label.
func (ti *ToolInvocation) WithService(serviceName, operation string) *ToolInvocation {
	ti.ServiceName, ti.Operation = serviceName, operation
	return ti
}

// WithArguments records the raw tool arguments.
func (ti *ToolInvocation) WithArguments(args map[string]any) *ToolInvocation {
	ti.Arguments = args
	return ti
}

// WithSpanContext copies trace and span ids from the span in ctx.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = GetTraceID(ctx)
	ti.SpanID = GetSpanID(ctx)
	return ti
}

// Complete stops the clock. err may be nil for failures that carry no
// error, such as a title scan that matched nothing.
func (ti *ToolInvocation) Complete(success bool, outcome string, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	ti.Outcome = outcome
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// LogAttrs returns the record's attributes. Empty optional fields are
// left out. Arguments are added as a group, keys sorted, when
// includeArguments is set.
func (ti *ToolInvocation) LogAttrs(includeArguments bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	optional := []struct{ key, value string }{
		{"service", ti.ServiceName},
		{"operation", ti.Operation},
		{"outcome", ti.Outcome},
		{"trace_id", ti.TraceID},
		{"span_id", ti.SpanID},
		{"error", ti.Error},
	}
	for _, o := range optional {
		if o.value != "" {
			attrs = append(attrs, slog.String(o.key, o.value))
		}
	}

	if includeArguments && len(ti.Arguments) > 0 {
		var args []any
		for _, k := range slices.Sorted(maps.Keys(ti.Arguments)) {
			args = append(args, slog.Any(k, ti.Arguments[k]))
		}
		attrs = append(attrs, slog.Group("arguments", args...))
	}
	return attrs
}

// AuditLogger writes one record per tool call. A nil *AuditLogger drops
// everything.
type AuditLogger struct {
	logger *slog.Logger
	config AuditLoggingConfig
}

// NewAuditLogger returns an audit logger writing to logger, or to
// slog.Default when logger is nil.
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger, config: config}
}

// LogToolInvocation writes tool_executed at INFO or tool_failed at WARN.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	if al == nil || !al.config.Enabled {
		return
	}

	level, msg := slog.LevelInfo, "tool_executed"
	if !ti.Success {
		level, msg = slog.LevelWarn, "tool_failed"
	}
	al.logger.LogAttrs(ctx, level, msg, ti.LogAttrs(al.config.IncludeArguments)...)
}
