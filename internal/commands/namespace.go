package commands

import (
	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/models"
)

// Classes returns every command class, the global one first
func Classes() []*dexscript.Class {
	return []*dexscript.Class{
		Global(),
		Ball(),
		Group(models.Regime),
		Group(models.Economy),
		Group(models.Special),
		File(),
	}
}

// Namespace builds the command table scripts run against
func Namespace() (*dexscript.Namespace, error) {
	return dexscript.NewNamespace(Classes()...)
}
