package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/loykin/upmon"
	"github.com/loykin/upmon/internal/history"
	"github.com/loykin/upmon/internal/history/factory"
	"github.com/loykin/upmon/internal/logger"
	"github.com/loykin/upmon/pkg/client"
)

// createServeCommand creates the serve subcommand
func createServeCommand(globalFlags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [config.toml]",
		Short: "Start the upmon daemon",
		Long: `Start the upmon daemon: poll processes on the configured interval,
track service status and history, and expose the HTTP API.

Examples:
  upmon serve --config=upmon.toml
  upmon serve upmon.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := globalFlags.ConfigPath
			if len(args) > 0 {
				configPath = args[0]
			}
			if configPath == "" {
				return fmt.Errorf("config file required for serve command. Use --config=upmon.toml or provide as argument")
			}
			return runServe(configPath)
		},
	}
}

func runServe(configPath string) error {
	cfg, err := upmon.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	log := logger.New(cfg.Log)

	if err := upmon.RegisterMetricsDefault(); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	var sinks []history.Sink
	if cfg.History != nil && cfg.History.DSN != "" {
		sink, err := factory.NewSinkFromDSN(cfg.History.DSN, cfg.History.Table)
		if err != nil {
			return fmt.Errorf("history sink: %w", err)
		}
		sinks = append(sinks, sink)
		log.Info("history sink configured", "dsn", cfg.History.DSN)
	}

	mon := upmon.NewFromConfig(configPath, cfg, log, sinks)

	listen := ":8080"
	basePath := "/api"
	if cfg.Server != nil {
		if cfg.Server.Listen != "" {
			listen = cfg.Server.Listen
		}
		if cfg.Server.BasePath != "" {
			basePath = cfg.Server.BasePath
		}
	}
	srv, err := upmon.NewHTTPServer(listen, basePath, mon)
	if err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	log.Info("http server listening", "addr", listen, "base_path", basePath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = mon.Run(ctx)

	_ = srv.Close()
	for _, s := range sinks {
		if c, ok := s.(io.Closer); ok {
			_ = c.Close()
		}
	}
	return err
}

// createValidateCommand creates the validate subcommand
func createValidateCommand(globalFlags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config.toml]",
		Short: "Validate a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := globalFlags.ConfigPath
			if len(args) > 0 {
				configPath = args[0]
			}
			if configPath == "" {
				return fmt.Errorf("config file required. Use --config=upmon.toml or provide as argument")
			}
			cfg, err := upmon.LoadConfig(configPath)
			if err != nil {
				return err
			}
			usable := 0
			for _, l := range cfg.Lookups() {
				if l.Name != "" && l.Matchable() {
					usable++
				}
			}
			fmt.Printf("ok: %d service lookup(s), %d usable, interval %s\n", len(cfg.Services), usable, cfg.Interval)
			return nil
		},
	}
}

// createStatusCommand creates the status subcommand (remote)
func createStatusCommand(remoteFlags *RemoteFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show tracked services from a running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(client.Config{BaseURL: remoteFlags.APIUrl, Timeout: remoteFlags.APITimeout})
			svcs, err := c.Services(cmd.Context())
			if err != nil {
				return err
			}
			if len(svcs) == 0 {
				fmt.Println("no services tracked yet")
				return nil
			}
			w := os.Stdout
			_, _ = fmt.Fprintf(w, "%-20s %-8s %-8s %-20s %s\n", "NAME", "STATUS", "PID", "PROCESS", "PORT")
			for _, s := range svcs {
				port := ""
				if s.Process.Port > 0 {
					port = fmt.Sprintf("%d", s.Process.Port)
				}
				_, _ = fmt.Fprintf(w, "%-20s %-8s %-8d %-20s %s\n", s.Name, s.Status, s.Process.PID, s.Process.ProcessName, port)
			}
			return nil
		},
	}
	addRemoteFlags(cmd, remoteFlags)
	return cmd
}

// createAvailabilityCommand creates the availability subcommand (remote)
func createAvailabilityCommand(remoteFlags *RemoteFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show availability percentage for one service",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(client.Config{BaseURL: remoteFlags.APIUrl, Timeout: remoteFlags.APITimeout})
			pct, err := c.Availability(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %.2f%%\n", name, pct)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "service name (required)")
	addRemoteFlags(cmd, remoteFlags)
	if err := cmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}
	return cmd
}

// createReconcileCommand creates the reconcile subcommand (remote)
func createReconcileCommand(remoteFlags *RemoteFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Trigger one poll cycle on a running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(client.Config{BaseURL: remoteFlags.APIUrl, Timeout: remoteFlags.APITimeout})
			if err := c.Reconcile(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	addRemoteFlags(cmd, remoteFlags)
	return cmd
}
