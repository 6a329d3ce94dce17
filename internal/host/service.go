// Package host exposes the script engine to chat front ends over
// WebSocket and HTTP.
package host

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/pkg/core/config"
	"github.com/msto63/dexcomx/pkg/core/version"
)

// SuccessReaction is attached to a message whose script ran cleanly
const SuccessReaction = "✅"

// GuideURL points at the command reference
const GuideURL = "https://github.com/Dexscript-V3/Dexscript-V3/blob/main/README.md"

// Service implements the owner commands: run, about and setting
type Service struct {
	exec          *dexscript.Executor
	settings      *config.Settings
	maxScriptSize int
	logger        *mdwlog.Logger
}

// NewService creates the command service. maxScriptSize <= 0 disables
// the size check.
func NewService(exec *dexscript.Executor, settings *config.Settings, maxScriptSize int, logger *mdwlog.Logger) *Service {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Service{
		exec:          exec,
		settings:      settings,
		maxScriptSize: maxScriptSize,
		logger:        logger.WithField("component", "host"),
	}
}

// RunRequest is a script submitted for execution
type RunRequest struct {
	Code        string                 `json:"code"`
	Attachments []dexscript.Attachment `json:"attachments,omitempty"`
}

// RunResult is the reply to a run. On success Reaction is set; otherwise
// Message holds the "ERROR: ..." text shown to the owner.
type RunResult struct {
	OK       bool   `json:"ok"`
	RunID    string `json:"run_id"`
	Reaction string `json:"reaction,omitempty"`
	Message  string `json:"message,omitempty"`
	Code     string `json:"code,omitempty"`
	Output   string `json:"output,omitempty"`
	Lines    int    `json:"lines"`
	Executed int    `json:"executed"`
	Duration string `json:"duration"`
}

// Run removes code markdown from the request and executes it with the
// current settings
func (s *Service) Run(ctx context.Context, req RunRequest) RunResult {
	debug := s.settings.Debug()
	code := dexscript.RemoveCodeMarkdown(req.Code)

	if s.maxScriptSize > 0 && len(code) > s.maxScriptSize {
		err := mdwerror.New(fmt.Sprintf("script is %d bytes, the limit is %d", len(code), s.maxScriptSize)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("host.Run")
		return failed(RunResult{}, err, debug)
	}

	if timeout := s.settings.RunTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var out bytes.Buffer
	shared := dexscript.NewShared(req.Attachments...)
	shared.Output = &out

	report, err := s.exec.WithDebug(debug).Execute(ctx, code, shared)
	result := RunResult{
		RunID:    shared.RunID,
		Output:   strings.TrimRight(out.String(), "\n"),
		Lines:    report.Lines,
		Executed: report.Executed,
		Duration: report.Duration.String(),
	}

	if err != nil {
		s.logger.WithRunID(shared.RunID).LogError(err)
		return failed(result, err, debug)
	}
	if report.Err() != nil {
		result.Message = "ERROR: " + report.String()
		result.Code = report.Errors[0].Kind.Code().String()
		return result
	}

	result.OK = true
	result.Reaction = SuccessReaction
	return result
}

func failed(result RunResult, err error, debug bool) RunResult {
	text := err.Error()
	if e, ok := mdwerror.As(err); ok && debug {
		text = e.String()
	}
	result.OK = false
	result.Message = "ERROR: " + text
	result.Code = mdwerror.GetCode(err).String()
	return result
}

// AboutInfo describes DexComX
type AboutInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Footer      string `json:"footer"`
	GuideURL    string `json:"guide_url"`
	Version     string `json:"version"`
}

// About returns the about card
func (s *Service) About() AboutInfo {
	return AboutInfo{
		Title: "DexComX",
		Description: "DexComX is a rebranded scripting toolkit for Ballsdex created by haymooed. " +
			"It modernizes command execution with aliases and multi-separator parsing so scripts are easier to write and maintain. " +
			"Use it for bulk content operations across balls, regimes, economy, and specials.\n\n" +
			fmt.Sprintf("Read the [DexComX command reference](<%s>) for full syntax and examples.", GuideURL),
		Color:    "#03BAFC",
		Footer:   "DexComX " + version.Platform,
		GuideURL: GuideURL,
		Version:  version.String(),
	}
}

// Markdown renders the about card for terminals
func (a AboutInfo) Markdown() string {
	return fmt.Sprintf("# %s\n\n%s\n\n---\n*%s*\n", a.Title, a.Description, a.Footer)
}

// SettingRequest changes one runtime setting; an empty value toggles
// boolean settings
type SettingRequest struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SettingResult is the reply to a setting change
type SettingResult struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Setting applies req
func (s *Service) Setting(req SettingRequest) (SettingResult, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	value, err := s.settings.Set(name, req.Value)
	if err != nil {
		return SettingResult{}, err
	}

	s.logger.Audit("setting changed", mdwlog.Fields{"setting": name, "value": value})
	return SettingResult{
		Name:    name,
		Value:   value,
		Message: fmt.Sprintf("`%s` has been set to `%s`", name, value),
	}, nil
}
