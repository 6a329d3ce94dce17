package commands

import (
	"context"

	"github.com/msto63/dexcomx/internal/dexscript"
)

// Global holds the methods callable without a class prefix. The first
// argument names the model, the second the record.
func Global() *dexscript.Class {
	return &dexscript.Class{
		Name:   "Global",
		Global: true,
		New:    newCommand,
		Methods: map[string]*dexscript.Method{
			"create": method("create", 2, -1, "create > MODEL > NAME [> FIELD > VALUE]...",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					m, err := c.model(args[0])
					if err != nil {
						return err
					}
					return c.create(ctx, m, args[1].Text(), args[2:])
				}),
			"update": method("update", 4, 4, "update > MODEL > NAME > FIELD > VALUE",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					m, err := c.model(args[0])
					if err != nil {
						return err
					}
					return c.update(ctx, m, args[1].Text(), args[2], args[3])
				}),
			"delete": method("delete", 2, 2, "delete > MODEL > NAME",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					m, err := c.model(args[0])
					if err != nil {
						return err
					}
					return c.remove(ctx, m, args[1].Text())
				}),
			"view": method("view", 2, 2, "view > MODEL > NAME",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					m, err := c.model(args[0])
					if err != nil {
						return err
					}
					return c.view(ctx, m, args[1].Text())
				}),
			"attributes": method("attributes", 1, 1, "attributes > MODEL",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					m, err := c.model(args[0])
					if err != nil {
						return err
					}
					c.attributes(m)
					return nil
				}),
			"listdir": method("listdir", 1, 1, "listdir > MODEL",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					m, err := c.model(args[0])
					if err != nil {
						return err
					}
					return c.listdir(ctx, m)
				}),
		},
	}
}
