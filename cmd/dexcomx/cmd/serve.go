package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/internal/host"
	"github.com/msto63/dexcomx/pkg/core/config"
	"github.com/msto63/dexcomx/pkg/core/health"
	"github.com/msto63/dexcomx/pkg/core/version"
)

// shutdownTimeout bounds the graceful shutdown of the host
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat host",
	Long: `Starts the DexComX host. Chat front ends connect over WebSocket
(/api/v1/script/ws) or plain HTTP (/api/v1/script/run).

The config file is watched: script settings such as debug and
run_timeout are reloaded when it changes.

Examples:
  dexcomx serve
  dexcomx serve --config ./configs/dexcomx.toml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(appOptions{})
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()

	registry := health.NewRegistry("dexcomx", version.Engine)
	registry.Register(health.PingCheck("store", a.store, 2*time.Second))

	srv := host.New(host.ConfigFrom(a.cfg.Server), a.service, registry, a.logger)
	if a.cfg.Server.OwnerToken == "" {
		a.logger.Warn("No owner token configured, every client may run scripts")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "DexComX host on %s\n", srv.Address())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	if a.cfgPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, a.cfgPath, reloadSettings(a.settings, a.logger))
		})
	}
	return g.Wait()
}

// reloadSettings applies the script section of a reloaded config. Server,
// store and log settings need a restart.
func reloadSettings(settings *config.Settings, logger *mdwlog.Logger) func(*config.Config, error) {
	return func(cfg *config.Config, err error) {
		if err != nil {
			logger.WarnWithErr("Config reload failed, keeping current settings", err)
			return
		}
		settings.Apply(cfg.Script)
		logger.Info("Config reloaded", mdwlog.Fields{
			"debug":       cfg.Script.Debug,
			"run_timeout": cfg.Script.RunTimeout.String(),
		})
	}
}
