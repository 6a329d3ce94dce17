package commands

import (
	"context"
	"fmt"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/models"
)

// File works with the attachments handed to the run
func File() *dexscript.Class {
	return &dexscript.Class{
		Name: "File",
		New:  newCommand,
		Methods: map[string]*dexscript.Method{
			"listdir": method("listdir", 0, 0, "File > listdir",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					if len(c.shared.Attachments) == 0 {
						c.printf("No files attached.")
						return nil
					}
					for i, a := range c.shared.Attachments {
						c.printf("%d. %s (%d bytes)", i+1, a.Name, a.Size)
					}
					return nil
				}),
			"save": method("save", 3, 3, "File > save > MODEL > NAME > FIELD",
				func(c *command, ctx context.Context, args []dexscript.Value) error {
					if len(c.shared.Attachments) == 0 {
						return mdwerror.New("no file attached").
							WithCode(mdwerror.CodeInvalidInput).
							WithOperation("File.save")
					}
					m, err := c.model(args[0])
					if err != nil {
						return err
					}
					f, ok := m.Field(args[2].Name)
					if !ok || f.Type != models.TypeString {
						return mdwerror.New(fmt.Sprintf("'%s' is not a text attribute of '%s'", args[2].Name, m.Name)).
							WithCode(mdwerror.CodeInvalidInput)
					}

					file := c.shared.Attachments[0]
					if _, err := c.set(ctx, m, args[1].Text(), f.Name, file.Name); err != nil {
						return err
					}
					c.printf("Saved '%s' to %s '%s' %s.", file.Name, m.Name, args[1].Text(), f.Name)
					return nil
				}),
		},
	}
}
