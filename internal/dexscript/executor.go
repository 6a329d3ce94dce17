// File: executor.go
// Title: Script Executor
// Description: Runs a script line by line against the namespace. Per-line
//              resolution errors are collected into a report while the run
//              continues; tokenization failures and command errors abort
//              the run. Every executed line is written to the audit log.
// Author: msto63
// Version: v1.0.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v1.0.0: Initial implementation

package dexscript

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
)

// Options configures an Executor
type Options struct {
	Namespace *Namespace
	Models    ModelRegistry
	// Runtime is handed to every class factory
	Runtime Runtime
	// Debug selects full error reports instead of terse messages
	Debug  bool
	Logger *mdwlog.Logger
}

// Executor runs scripts. It holds no per-run state and may be used by
// concurrent runs.
type Executor struct {
	ns         *Namespace
	classifier *Classifier
	runtime    Runtime
	debug      bool
	logger     *mdwlog.Logger
}

// Attachment is a file handed to a run, e.g. an image uploaded with the
// script message
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
	Data        []byte `json:"data,omitempty"`
}

// Shared is the context of one run. The same instance reaches every
// command created during the run.
type Shared struct {
	RunID       string
	Started     time.Time
	Attachments []Attachment
	// Output receives what commands print during this run; commands fall
	// back to their runtime's writer when it is nil
	Output io.Writer
}

// NewShared creates the context for a new run
func NewShared(attachments ...Attachment) *Shared {
	return &Shared{
		RunID:       uuid.New().String(),
		Started:     time.Now(),
		Attachments: attachments,
	}
}

// Report summarizes a run
type Report struct {
	RunID    string        `json:"run_id"`
	Lines    int           `json:"lines"`
	Executed int           `json:"executed"`
	Errors   []*LineError  `json:"-"`
	Duration time.Duration `json:"duration"`

	debug bool
}

// String joins the line errors in line order
func (r *Report) String() string {
	entries := make([]string, len(r.Errors))
	for i, le := range r.Errors {
		entries[i] = le.Render(r.debug)
	}
	return strings.Join(entries, "\n")
}

// Err returns nil when every line ran, otherwise an error carrying the
// joined report and the code of the first line error
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return mdwerror.New(r.String()).
		WithCode(r.Errors[0].Kind.Code()).
		WithOperation("dexscript.Execute").
		WithDetail("errors", len(r.Errors)).
		WithDetail("run_id", r.RunID)
}

// New creates an executor
func New(opts Options) (*Executor, error) {
	if opts.Namespace == nil {
		return nil, mdwerror.New("namespace is required").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("dexscript.New")
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}

	return &Executor{
		ns:         opts.Namespace,
		classifier: NewClassifier(opts.Namespace, opts.Models),
		runtime:    opts.Runtime,
		debug:      opts.Debug,
		logger:     opts.Logger.WithField("component", "dexscript"),
	}, nil
}

// WithDebug returns a copy of e with the debug flag set
func (e *Executor) WithDebug(debug bool) *Executor {
	c := *e
	c.debug = debug
	return &c
}

// Namespace returns the executor's command table
func (e *Executor) Namespace() *Namespace {
	return e.ns
}

// Parse normalizes script and classifies every token without running
// anything. An unresolvable model fails the whole parse.
func (e *Executor) Parse(script string) ([][]Value, error) {
	raw := SplitScript(script)
	lines := make([][]Value, 0, len(raw))
	for _, tokens := range raw {
		values, err := e.classifier.ClassifyLine(tokens)
		if err != nil {
			return nil, err
		}
		lines = append(lines, values)
	}
	return lines, nil
}

// Execute runs script. Lines are numbered from 1 after blank and comment
// lines have been dropped. Separator-only lines are counted but skipped.
//
// The returned error is non-nil only when the run was aborted: by an
// unresolvable model (nothing ran), by a command returning an error or by
// ctx. Side effects of lines that already ran are kept. Per-line errors
// are reported through Report.Err.
func (e *Executor) Execute(ctx context.Context, script string, shared *Shared) (*Report, error) {
	if shared == nil {
		shared = NewShared()
	}

	logger := e.logger.WithRunID(shared.RunID)
	timer := logger.StartTimer("script run")
	report := &Report{RunID: shared.RunID, debug: e.debug}

	lines, err := e.Parse(script)
	if err != nil {
		report.Duration = timer.StopWithError(err)
		return report, err
	}
	report.Lines = len(lines)
	timer.WithField("lines", report.Lines)

	for i, line := range lines {
		n := i + 1
		if len(line) == 0 {
			continue
		}

		if err := ctx.Err(); err != nil {
			aborted := mdwerror.Wrap(err, fmt.Sprintf("run stopped before line %d", n)).
				WithCode(mdwerror.CodeTimeout).
				WithOperation("dexscript.Execute")
			report.Duration = timer.StopWithError(aborted)
			return report, aborted
		}

		lineErr, err := e.runLine(ctx, logger, n, line, shared)
		if err != nil {
			report.Duration = timer.StopWithError(err)
			return report, err
		}
		if lineErr != nil {
			logger.LogError(lineErr.Err)
			report.Errors = append(report.Errors, lineErr)
			continue
		}

		report.Executed++
		timer.Checkpoint(fmt.Sprintf("line %d", n))
	}

	timer.WithField("executed", report.Executed).WithField("errors", len(report.Errors))
	report.Duration = timer.Stop()
	return report, nil
}

// runLine resolves and invokes one line. A LineError is recoverable; a
// plain error aborts the run.
func (e *Executor) runLine(ctx context.Context, logger *mdwlog.Logger, n int, line []Value, shared *Shared) (*LineError, error) {
	class, method := e.ns.Resolve(line[0])
	if class == nil {
		return newLineError(n, UnknownCommand, "'%s' is not a valid command.", line[0].Name), nil
	}
	args := line[1:]

	if method == "" {
		if len(args) == 0 {
			return newLineError(n, MissingMethod, "missing method after '%s'.", class.Name), nil
		}
		method = Alias(NormalizeToken(args[0].Name))
		args = args[1:]
	}

	inst, err := class.New(e.runtime, shared)
	if err != nil {
		return nil, commandFailed(err, n, class.Name, method)
	}

	m, ok := class.Method(method)
	if !ok {
		return newLineError(n, UnknownMethod, "'%s' is not a valid method for '%s'.", method, class.Name), nil
	}
	if !m.Accepts(len(args)) {
		return newLineError(n, MissingArgument, "argument missing when calling '%s'.", m.Name), nil
	}

	if err := m.Call(ctx, inst, args); err != nil {
		return nil, commandFailed(err, n, class.Name, m.Name)
	}

	logger.Audit("script line executed", mdwlog.Fields{
		"line":   n,
		"class":  class.Name,
		"method": m.Name,
		"args":   len(args),
	})
	return nil, nil
}

func commandFailed(err error, n int, class, method string) error {
	wrapped := mdwerror.Wrap(err, fmt.Sprintf("Line %d", n)).
		WithOperation(class + "." + method).
		WithDetail("line", n)
	if wrapped.Code() == mdwerror.CodeUnknown {
		wrapped = wrapped.WithCode(mdwerror.CodeCommandFailed)
	}
	return wrapped
}
