package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/tilda/internal/command"
)

func newCallCmd() *cobra.Command {
	names := make([]string, 0, len(command.Names()))
	for _, n := range command.Names() {
		names = append(names, n.String())
	}

	cmd := &cobra.Command{
		Use:   "call <operation> [json-arguments]",
		Short: "Run a single calendar operation",
		Long: `Run one calendar operation and print its result as JSON.

Operations: ` + strings.Join(names, ", ") + `

Arguments are a JSON object, given inline or read from stdin with "-":

  tilda call list_events_on_day '{"calendar_name":"Work","date_str":"2024-01-10"}'
  echo '{"title":"Lunch"}' | tilda call delete_event_by_title -

The command exits non-zero when the status is not "success".`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			raw := ""
			if len(args) == 2 {
				raw = args[1]
			}
			callArgs, err := parseCallArguments(raw, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, err := newAgendaService(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			return runCall(cmd.Context(), cmd.OutOrStdout(), svc, args[0], callArgs)
		},
	}

	return cmd
}

// parseCallArguments decodes the JSON object argument. "-" reads it from in,
// an empty string means no arguments.
func parseCallArguments(raw string, in io.Reader) (map[string]any, error) {
	if raw == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read arguments from stdin: %w", err)
		}
		raw = string(data)
	}
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// runCall dispatches one command and writes the result as indented JSON.
func runCall(ctx context.Context, w io.Writer, exec command.Executor, name string, args map[string]any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res := command.Dispatch(ctx, name, args, exec)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if !res.OK() {
		return fmt.Errorf("%s failed with status %s", res.Command, res.Status)
	}
	return nil
}
