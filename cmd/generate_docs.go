package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/tilda/internal/command"
	"github.com/teemow/tilda/internal/server"
)

// Tool categories in the order they appear in the reference.
const (
	categoryDirectory = "Calendar Directory Tools"
	categoryQuery     = "Event Query Tools"
	categoryMutation  = "Event Mutation Tools"
	categoryOther     = "Other"
)

var categoryOrder = []string{categoryDirectory, categoryQuery, categoryMutation, categoryOther}

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Write a markdown reference of every registered MCP tool.

The reference is built from the live tool definitions, so argument names and
descriptions match what agents see.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := toolsReference()
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), md)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(md), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// toolsReference registers the tools against a context without a calendar
// backend; registration never calls it.
func toolsReference() (string, error) {
	sc := server.NewServerContext(context.Background(), nil)
	defer func() { _ = sc.Shutdown() }()

	mcpSrv, err := newMCPServer(sc)
	if err != nil {
		return "", err
	}

	tools := make([]mcp.Tool, 0, len(mcpSrv.ListTools()))
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}
	return generateToolsMarkdown(tools), nil
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	byCategory := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		c := getCategoryFromToolName(tool.Name)
		byCategory[c] = append(byCategory[c], tool)
	}

	var b strings.Builder
	b.WriteString("# MCP Tools Reference\n\n")
	b.WriteString("Tools exposed by `tilda serve`. Generated by `tilda generate-docs`; do not edit by hand.\n\n")

	b.WriteString("## Table of Contents\n\n")
	for _, c := range categoryOrder {
		if len(byCategory[c]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "- [%s](#%s)\n", c, strings.ToLower(strings.ReplaceAll(c, " ", "-")))
	}

	b.WriteString("\n## Read-Only Mode\n\n")
	b.WriteString("With `--read-only` (or `server.read_only: true`) only these tools are registered:\n\n")
	for _, name := range command.Names() {
		if name.ReadOnly() {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
	}

	b.WriteString("\n## Results\n\n")
	b.WriteString("Every tool returns a JSON object with `command`, `status` and, when present, `message` and `data`. ")
	b.WriteString("`status` is one of `success`, `not_found`, `malformed_input`, `calendar_unavailable` or `remote_failure`; ")
	b.WriteString("any status other than `success` is returned as a tool error.\n")

	for _, c := range categoryOrder {
		group := byCategory[c]
		if len(group) == 0 {
			continue
		}
		slices.SortFunc(group, func(x, y mcp.Tool) int { return strings.Compare(x.Name, y.Name) })

		fmt.Fprintf(&b, "\n## %s\n", c)
		for _, tool := range group {
			writeToolMarkdown(&b, tool)
		}
	}
	return b.String()
}

func getCategoryFromToolName(name string) string {
	switch command.Name(name) {
	case command.NameCreateCalendar, command.NameListCalendars:
		return categoryDirectory
	case command.NameListEventsOnDay:
		return categoryQuery
	case command.NameInsertEvents, command.NameDeleteEventByTitle, command.NameUpdateEvent:
		return categoryMutation
	}
	return categoryOther
}

func writeToolMarkdown(b *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(b, "\n### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(b, "%s\n\n", tool.Description)
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return
	}

	b.WriteString("**Arguments:**\n")
	for _, name := range slices.Sorted(maps.Keys(props)) {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}

		presence := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			presence = "required"
		}

		desc, _ := prop["description"].(string)
		if desc == "" {
			typ, _ := prop["type"].(string)
			if typ == "" {
				typ = "any"
			}
			desc = typ + " parameter"
		}
		fmt.Fprintf(b, "- `%s` (%s): %s\n", name, presence, desc)
	}
}
