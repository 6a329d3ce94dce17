package cmd

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/host"
)

var (
	runParse    bool
	runDebug    bool
	runAttach   []string
	runParallel int
)

var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Run scripts",
	Long: `Runs one script per file, or a script read from stdin when no file
(or "-") is given. Every script is a run of its own: errors in one script
never affect another.

Examples:
  dexcomx run bulk.dex
  dexcomx run --parallel 4 a.dex b.dex c.dex
  echo "ls > ball" | dexcomx run
  dexcomx run --parse bulk.dex       # show how tokens are classified
  dexcomx run --attach flag.png upload.dex`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runParse, "parse", false, "classify tokens without running")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "report full diagnostics instead of terse errors")
	runCmd.Flags().StringSliceVar(&runAttach, "attach", nil, "attach files to every run")
	runCmd.Flags().IntVarP(&runParallel, "parallel", "p", 0, "scripts run at once (default: script.max_parallel)")
}

// script is one input of the run command
type script struct {
	name string
	code string
}

func runRun(cmd *cobra.Command, args []string) error {
	scripts, err := readScripts(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	attachments, err := readAttachments(runAttach)
	if err != nil {
		return err
	}

	a, err := newApp(appOptions{quiet: !verbose})
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if runParse {
		return parseScripts(out, a.exec, scripts)
	}

	if runDebug {
		if _, err := a.settings.Set("debug", "true"); err != nil {
			return err
		}
	}

	limit := runParallel
	if limit <= 0 {
		limit = a.cfg.Script.MaxParallel
	}

	results := make([]host.RunResult, len(scripts))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(limit)
	for i, s := range scripts {
		i, s := i, s
		g.Go(func() error {
			results[i] = a.service.Run(ctx, host.RunRequest{Code: s.code, Attachments: attachments})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		if len(scripts) > 1 {
			fmt.Fprintf(out, "== %s\n", scripts[i].name)
		}
		if r.Output != "" {
			fmt.Fprintln(out, r.Output)
		}
		if r.OK {
			fmt.Fprintln(out, r.Reaction)
			continue
		}
		failed++
		fmt.Fprintln(out, r.Message)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(scripts))
	}
	return nil
}

func parseScripts(out io.Writer, exec *dexscript.Executor, scripts []script) error {
	for _, s := range scripts {
		if len(scripts) > 1 {
			fmt.Fprintf(out, "== %s\n", s.name)
		}
		lines, err := exec.Parse(dexscript.RemoveCodeMarkdown(s.code))
		if err != nil {
			return err
		}
		for n, line := range lines {
			parts := make([]string, len(line))
			for i, v := range line {
				parts[i] = fmt.Sprintf("%s[%s]", v.Name, v.Kind)
			}
			fmt.Fprintln(out, strings.TrimSpace(fmt.Sprintf("%d: %s", n+1, strings.Join(parts, " "))))
		}
	}
	return nil
}

func readScripts(stdin io.Reader, args []string) ([]script, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	scripts := make([]script, 0, len(args))
	for _, name := range args {
		var data []byte
		var err error
		if name == "-" {
			data, err = io.ReadAll(stdin)
			name = "stdin"
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		scripts = append(scripts, script{name: name, code: string(data)})
	}
	return scripts, nil
}

func readAttachments(paths []string) ([]dexscript.Attachment, error) {
	attachments := make([]dexscript.Attachment, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", p, err)
		}
		contentType := mime.TypeByExtension(filepath.Ext(p))
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		attachments = append(attachments, dexscript.Attachment{
			Name:        filepath.Base(p),
			ContentType: contentType,
			Size:        int64(len(data)),
			Data:        data,
		})
	}
	return attachments, nil
}
