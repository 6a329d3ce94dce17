// Package commands implements the script commands that operate on the
// bot's records.
package commands

import (
	"context"
	"fmt"
	"io"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/models"
	"github.com/msto63/dexcomx/internal/store"
)

// Runtime is what every command instance works against
type Runtime struct {
	Store  store.RecordStore
	Models *models.Registry
	// Out receives views and listings of runs without their own output
	Out    io.Writer
	Logger *mdwlog.Logger
}

// command is the instance created for one script line
type command struct {
	rt     *Runtime
	shared *dexscript.Shared
	log    *mdwlog.Logger
}

func newCommand(rt dexscript.Runtime, shared *dexscript.Shared) (dexscript.Instance, error) {
	r, ok := rt.(*Runtime)
	if !ok || r == nil {
		return nil, mdwerror.New(fmt.Sprintf("unsupported runtime %T", rt)).
			WithCode(mdwerror.CodeInternal).
			WithOperation("commands.newCommand")
	}
	logger := r.Logger
	if logger == nil {
		logger = mdwlog.Discard()
	}
	return &command{rt: r, shared: shared, log: logger.WithRunID(shared.RunID)}, nil
}

type body func(c *command, ctx context.Context, args []dexscript.Value) error

func method(name string, min, max int, usage string, fn body) *dexscript.Method {
	return &dexscript.Method{
		Name:    name,
		MinArgs: min,
		MaxArgs: max,
		Usage:   usage,
		Call: func(ctx context.Context, inst dexscript.Instance, args []dexscript.Value) error {
			return fn(inst.(*command), ctx, args)
		},
	}
}

func (c *command) printf(format string, args ...interface{}) {
	out := c.shared.Output
	if out == nil {
		out = c.rt.Out
	}
	if out == nil {
		return
	}
	fmt.Fprintf(out, format+"\n", args...)
}

// model resolves the model a token names. Model names that double as
// class names ("Ball") arrive as class tokens and are fetched by name.
func (c *command) model(v dexscript.Value) (*models.Model, error) {
	if m, err := v.Model(); err == nil {
		return m, nil
	}
	return c.rt.Models.Fetch(v.Name)
}
