package cmd

import (
	"io"
	"os"

	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/internal/commands"
	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/host"
	"github.com/msto63/dexcomx/internal/models"
	"github.com/msto63/dexcomx/internal/store"
	"github.com/msto63/dexcomx/pkg/core/config"
	"github.com/msto63/dexcomx/pkg/core/logging"
)

// app bundles everything a subcommand needs to run scripts
type app struct {
	cfg      *config.Config
	cfgPath  string
	logger   *mdwlog.Logger
	logClose io.Closer
	store    store.RecordStore
	models   *models.Registry
	settings *config.Settings
	exec     *dexscript.Executor
	service  *host.Service
}

// appOptions controls logging, which differs between the TUI, the server
// and one-shot runs
type appOptions struct {
	quiet bool      // no console logging, e.g. under the TUI
	out   io.Writer // command output of runs without their own output
}

// configPath returns the config file in effect, or "" for defaults
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := os.Getenv(config.EnvConfigPath); p != "" {
		return p
	}
	return config.FindConfig()
}

func loadConfig() (*config.Config, string, error) {
	path := configPath()
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// newApp loads the configuration and wires store, models, namespace,
// executor and command service
func newApp(opts appOptions) (*app, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := logging.FromConfig(cfg, "dexcomx")
	logCfg.Quiet = opts.quiet
	if verbose {
		logCfg.Level = "debug"
	}
	logger, logClose, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, cfgPath: path, logger: logger, logClose: logClose}

	a.store, err = store.Open(store.Config{Driver: cfg.Store.Driver, DSN: cfg.Store.DSN})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.models = models.Default()

	ns, err := commands.Namespace()
	if err != nil {
		a.Close()
		return nil, err
	}

	out := opts.out
	if out == nil {
		out = io.Discard
	}
	a.exec, err = dexscript.New(dexscript.Options{
		Namespace: ns,
		Models:    a.models,
		Runtime:   &commands.Runtime{Store: a.store, Models: a.models, Out: out, Logger: logger},
		Debug:     cfg.Script.Debug,
		Logger:    logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.settings = config.NewSettings(cfg.Script)
	a.service = host.NewService(a.exec, a.settings, cfg.Script.MaxScriptSize, logger)
	return a, nil
}

// Close releases the store and the log file
func (a *app) Close() error {
	var first error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			first = err
		}
	}
	if a.logClose != nil {
		if err := a.logClose.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
