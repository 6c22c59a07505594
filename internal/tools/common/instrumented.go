package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/tilda/internal/agenda"
	"github.com/teemow/tilda/internal/command"
	"github.com/teemow/tilda/internal/instrumentation"
	"github.com/teemow/tilda/internal/logging"
	"github.com/teemow/tilda/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// CommandHandler returns a tool handler that parses the request arguments
// as the named command and runs it against the server's executor.
//
// Usage:
//
//	s.AddTool(tool, common.CommandHandler(command.NameListCalendars, sc))
func CommandHandler(name command.Name, sc *server.ServerContext) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, string(name),
			instrumentation.NewSpanAttributeBuilder().
				WithService(instrumentation.ServiceCalendar).
				WithReadOnly(name.ReadOnly()).
				Build()...)
		defer span.End()

		start := time.Now()
		args := request.GetArguments()
		invocation := instrumentation.NewToolInvocation(string(name)).
			WithSpanContext(ctx).
			WithService(instrumentation.ServiceCalendar, operationFor(name)).
			WithArguments(args)

		res := command.Dispatch(ctx, string(name), args, sc.Executor())
		duration := time.Since(start)

		if res.OK() {
			instrumentation.SetSpanSuccess(span)
			invocation.Complete(true, string(res.Status), nil)
		} else {
			instrumentation.AddSpanEvent(span, "outcome", instrumentation.NewSpanAttributeBuilder().
				WithOutcome(string(res.Status)).Build()...)
			if res.Status != agenda.OutcomeNotFound {
				instrumentation.SetSpanError(span, resultError(res))
			}
			invocation.Complete(false, string(res.Status), resultError(res))
		}

		logging.WithTool(sc.Logger(), string(name)).DebugContext(ctx, "tool call finished",
			logging.Service(instrumentation.ServiceCalendar),
			logging.Status(string(res.Status)),
			slog.Duration("duration", duration))

		sc.Metrics().RecordToolInvocation(ctx, string(name), string(res.Status), duration)
		sc.AuditLogger().LogToolInvocation(ctx, invocation)

		return ToolResult(res)
	}
}

// operationFor maps a command to the coarse Google API operation it performs.
func operationFor(name command.Name) string {
	switch name {
	case command.NameCreateCalendar, command.NameInsertEvents:
		return instrumentation.OperationCreate
	case command.NameUpdateEvent:
		return instrumentation.OperationUpdate
	case command.NameDeleteEventByTitle:
		return instrumentation.OperationDelete
	default:
		return instrumentation.OperationList
	}
}
