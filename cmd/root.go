package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootCmd represents the base command for the tilda application
var rootCmd = &cobra.Command{
	Use:   "tilda",
	Short: "Calendar operations for an AI assistant over Google Calendar",
	Long: `tilda manages Google Calendar on behalf of an AI assistant: it creates and
lists calendars, lists a day's events, inserts events and updates or deletes
events by title.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (default)
  - A CLI running single operations with "tilda call"`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// configFile is the --config flag shared by all commands.
var configFile string

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "tilda version %s\n" .Version}}`)

	// If no subcommand is provided, run the MCP server by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func addPersistentFlags(flags *pflag.FlagSet) {
	flags.StringVar(&configFile, "config", "", "Config file (default: tilda.yaml in ., ~/.config/tilda or /etc/tilda)")
	flags.String("timezone", "", "IANA time zone for day boundaries and new events")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
}

func init() {
	addPersistentFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
