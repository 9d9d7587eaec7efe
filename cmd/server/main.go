package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wiresignal/internal/app"
	"github.com/vovakirdan/wiresignal/internal/config"
	applog "github.com/vovakirdan/wiresignal/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type serveFlags struct {
	configPath string
	host       string
	port       int
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var flags serveFlags

	root := &cobra.Command{
		Use:           "signalrelay",
		Short:         "WebRTC signaling relay over WebSocket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, flags)
		},
	}

	root.Flags().StringVar(&flags.configPath, "config", "", "path to config.yaml (created with defaults when missing)")
	root.Flags().StringVar(&flags.host, "host", "", "listen host (overrides config)")
	root.Flags().IntVar(&flags.port, "port", 0, "listen port (overrides config and PORT)")
	root.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newProbeCmd())
	return root
}

func serve(cmd *cobra.Command, flags serveFlags) error {
	bootLogger := applog.New("info")

	cfg, path, err := config.Load(bootLogger, flags.configPath)
	if err != nil {
		return err
	}
	cfg.UpdateFrom(config.Config{
		Host:     flags.host,
		Port:     flags.port,
		LogLevel: flags.logLevel,
	})

	logger := applog.New(cfg.LogLevel)
	logger.Info().Str("config", path).Str("addr", cfg.Addr()).Msg("starting signal relay")

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
