package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/dexcomx/internal/commands"
	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/models"
)

var modelsSchema bool

var modelsCmd = &cobra.Command{
	Use:   "models [model]",
	Short: "List scriptable models and commands",
	Long: `Lists the models scripts can operate on with their fields, and the
command classes with their methods.

Examples:
  dexcomx models              # all models and commands
  dexcomx models ball         # fields of one model
  dexcomx models ball --schema # JSON schema of the record payload`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().BoolVar(&modelsSchema, "schema", false, "print the JSON schema of each model")
}

func runModels(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reg := models.Default()

	list := reg.All()
	if len(args) == 1 {
		m, err := reg.Fetch(args[0])
		if err != nil {
			return err
		}
		list = []*models.Model{m}
	}

	for _, m := range list {
		if modelsSchema {
			schema, err := models.SchemaJSON(m)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n%s\n\n", m.Name, schema)
			continue
		}

		fmt.Fprintf(out, "%s (key: %s)\n", m.Name, m.DisplayKey)
		fmt.Fprintf(out, "  %-20s %-10s %-10s\n", "FIELD", "TYPE", "DEFAULT")
		for _, f := range m.Fields {
			def := "-"
			if f.Default != nil {
				def = fmt.Sprint(f.Default)
			}
			fmt.Fprintf(out, "  %-20s %-10s %-10s\n", f.Name, f.Type, def)
		}
		fmt.Fprintln(out)
	}

	if len(args) == 0 && !modelsSchema {
		ns, err := commands.Namespace()
		if err != nil {
			return err
		}
		printClasses(cmd, ns)
	}
	return nil
}

func printClasses(cmd *cobra.Command, ns *dexscript.Namespace) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Commands")
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for _, class := range ns.Classes() {
		name := class.Name
		if class.Global {
			name += " (global)"
		}
		fmt.Fprintf(out, "%s\n", name)
		for _, mn := range class.MethodNames() {
			if m, ok := class.Method(mn); ok {
				fmt.Fprintf(out, "  %-12s %s\n", m.Name, m.Usage)
			}
		}
	}

	aliases := ns.Aliases()
	pairs := make([]string, 0, len(aliases))
	for alias, target := range aliases {
		pairs = append(pairs, alias+"="+target)
	}
	sort.Strings(pairs)
	fmt.Fprintf(out, "\nAliases: %s\n", strings.Join(pairs, ", "))
}
