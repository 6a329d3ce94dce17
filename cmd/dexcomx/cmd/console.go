package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/dexcomx/internal/tui/console"
)

var consoleAttach []string

var consoleCmd = &cobra.Command{
	Use:     "console",
	Aliases: []string{"repl"},
	Short:   "Start the interactive console",
	Long: `Starts the interactive DexComX console.

Type a script and press Enter to run it. "about" shows the about card,
"setting <name> [value]" changes a runtime setting.

Keys:
  Enter       run
  Ctrl+J      new line
  ↑/↓         history
  Ctrl+D      toggle debug
  Ctrl+L      clear
  PgUp/PgDn   scroll
  Ctrl+C      quit`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().StringSliceVar(&consoleAttach, "attach", nil, "attach files to every run")
}

func runConsole(cmd *cobra.Command, args []string) error {
	attachments, err := readAttachments(consoleAttach)
	if err != nil {
		return err
	}

	// Console logging would draw over the TUI; the log file still applies
	a, err := newApp(appOptions{quiet: true})
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()

	return console.Run(console.Config{
		HistoryFile: a.cfg.Console.HistoryFile,
		HistorySize: a.cfg.Console.HistorySize,
		Debug:       a.settings.Debug(),
		Attachments: attachments,
	}, a.service)
}
