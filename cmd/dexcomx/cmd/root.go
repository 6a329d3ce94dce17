package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dexcomx",
	Short: "DexComX - bulk scripting toolkit",
	Long: `DexComX runs DexScript: one command per line, tokens separated
by ">", "::" or "=>".

  create > ball > France > rarity > 1.5
  set > ball > France > enabled > true
  ls > regime

Commands:
  run      - run scripts from files or stdin
  serve    - start the chat host (WebSocket + HTTP)
  console  - interactive terminal console
  models   - list the scriptable models`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $DEXCOMX_CONFIG or ./dexcomx.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
