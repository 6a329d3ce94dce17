package commands

import (
	"context"

	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/models"
)

// Ball operates on balls by country
func Ball() *dexscript.Class {
	m := models.Ball
	return &dexscript.Class{
		Name: "Ball",
		New:  newCommand,
		Methods: map[string]*dexscript.Method{
			"view": method("view", 1, 1, "Ball > view > COUNTRY",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					return c.view(ctx, m, args[0].Text())
				}),
			"delete": method("delete", 1, 1, "Ball > delete > COUNTRY",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					return c.remove(ctx, m, args[0].Text())
				}),
			"enable": method("enable", 2, 2, "Ball > enable > COUNTRY > true|false",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					enabled, err := args[1].Bool()
					if err != nil {
						return err
					}
					if _, err := c.set(ctx, m, args[0].Text(), "enabled", enabled); err != nil {
						return err
					}
					c.printf("%s '%s' enabled: %t.", m.Name, args[0].Text(), enabled)
					return nil
				}),
			"rarity": method("rarity", 2, 2, "Ball > rarity > COUNTRY > NUMBER",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					rarity, err := args[1].Float()
					if err != nil {
						return err
					}
					if _, err := c.set(ctx, m, args[0].Text(), "rarity", rarity); err != nil {
						return err
					}
					c.printf("%s '%s' rarity: %g.", m.Name, args[0].Text(), rarity)
					return nil
				}),
			"count": method("count", 0, 0, "Ball > count",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					n, err := c.rt.Store.Count(ctx, m.Name)
					if err != nil {
						return err
					}
					c.printf("%d %s records.", n, m.Name)
					return nil
				}),
		},
	}
}

// Group returns the class for a model that groups balls: Regime, Economy
// or Special
func Group(m *models.Model) *dexscript.Class {
	return &dexscript.Class{
		Name: m.Name,
		New:  newCommand,
		Methods: map[string]*dexscript.Method{
			"create": method("create", 1, 1, m.Name+" > create > NAME",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					return c.create(ctx, m, args[0].Text(), nil)
				}),
			"delete": method("delete", 1, 1, m.Name+" > delete > NAME",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					return c.remove(ctx, m, args[0].Text())
				}),
			"view": method("view", 1, 1, m.Name+" > view > NAME",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					return c.view(ctx, m, args[0].Text())
				}),
			"listdir": method("listdir", 0, 0, m.Name+" > listdir",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					return c.listdir(ctx, m)
				}),
		},
	}
}
