package calendar_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tilda/internal/command"
	"github.com/teemow/tilda/internal/server"
	"github.com/teemow/tilda/internal/tools/common"
)

// toolDef pairs an MCP tool definition with the command it runs.
type toolDef struct {
	name command.Name
	tool mcp.Tool
}

// RegisterCalendarTools registers all calendar tools with the MCP server.
// In read-only mode only the listing tools are registered.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return fmt.Errorf("mcp server and server context are required")
	}

	defs := append(calendarListTools(), eventTools()...)
	for _, def := range defs {
		if sc.ReadOnly() && !def.name.ReadOnly() {
			continue
		}
		s.AddTool(def.tool, common.CommandHandler(def.name, sc))
	}
	return nil
}
