package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iaconlabs/warpcore/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server with the notes API mounted under the base path.

Examples:
  warpcore serve
  warpcore serve --addr=:9090
  warpcore serve --config=warpcore.yaml --log-format=json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")

	return cmd
}

func runServe(ctx context.Context, cfg Config, flags *globalFlags) error {
	logger, err := newLogger(os.Stderr, flags.logLevel, flags.logFormat)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("starting warpcore",
		"version", version,
		"router", cfg.Router,
		"engine", cfg.Engine,
		"routes", len(a.core.Routes()))

	srv := server.New(cfg.Server, a.handler, server.WithLogger(logger))
	return srv.Run(ctx)
}
