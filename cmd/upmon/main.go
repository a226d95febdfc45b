package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds minimal global/persistent flags for CLI commands
type GlobalFlags struct {
	ConfigPath string
}

// RemoteFlags holds daemon connection flags for remote commands
type RemoteFlags struct {
	APIUrl     string
	APITimeout time.Duration
}

// buildRoot creates the root command and wires all subcommands
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	remoteFlags := &RemoteFlags{}

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createServeCommand(globalFlags),
		createValidateCommand(globalFlags),
		createStatusCommand(remoteFlags),
		createAvailabilityCommand(remoteFlags),
		createReconcileCommand(remoteFlags),
	)
	return root
}

// createRootCommand creates the root command with minimal persistent flags
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "upmon",
		Short: "Process-backed service uptime monitor",
		Long: `Upmon watches a configured set of services, each backed by an OS
process found by name pattern or PID, and reports status, uptime history and
availability over an HTTP API.

Examples:
  upmon serve --config=upmon.toml           # Start daemon
  upmon status                              # Show services from local daemon
  upmon status --api-url=http://remote:8080/api
  upmon availability --name=teamspeak`,
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file")
	return root
}

func addRemoteFlags(cmd *cobra.Command, flags *RemoteFlags) {
	cmd.Flags().StringVar(&flags.APIUrl, "api-url", "http://localhost:8080/api", "daemon URL (e.g. http://host:8080/api)")
	cmd.Flags().DurationVar(&flags.APITimeout, "api-timeout", 10*time.Second, "request timeout")
}
