// ============================================================================
// DexComX - Bulk Scripting Toolkit
// ============================================================================
//
// Package:     console
// Description: Interactive Bubbletea console for running scripts locally
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

// Package console is a terminal front end for the script engine. It talks
// to the same command service as the chat host: scripts typed into the
// input run on Enter, "about" shows the about card and "setting" changes
// runtime settings.
package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/dexcomx/internal/dexscript"
	"github.com/msto63/dexcomx/internal/host"
	"github.com/msto63/dexcomx/pkg/core/version"
)

// Service is the subset of the command service the console drives
type Service interface {
	Run(ctx context.Context, req host.RunRequest) host.RunResult
	About() host.AboutInfo
	Setting(req host.SettingRequest) (host.SettingResult, error)
}

// Config holds console configuration
type Config struct {
	HistoryFile string
	HistorySize int
	Debug       bool
	// Attachments are handed to every run, like files attached to a message
	Attachments []dexscript.Attachment
}

// Model is the Bubbletea model of the console
type Model struct {
	width   int
	height  int
	ready   bool
	running bool
	debug   bool
	runs    int
	lastRun string

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	svc         Service
	attachments []dexscript.Attachment
	entries     []Entry

	history      *History
	historyIndex int    // -1 while editing a new script
	currentInput string // draft kept while browsing history
}

// New creates the console model. A history that cannot be read is
// replaced by an in-memory one and reported in the transcript.
func New(cfg Config, svc Service) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a script... (Enter runs, Ctrl+J new line)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := Model{
		textarea:     ta,
		spinner:      sp,
		svc:          svc,
		debug:        cfg.Debug,
		attachments:  cfg.Attachments,
		historyIndex: -1,
	}

	history, err := LoadHistory(cfg.HistoryFile, cfg.HistorySize)
	if err != nil {
		history, _ = LoadHistory("", cfg.HistorySize)
		m.addEntry(EntrySystem, "History unavailable: "+err.Error())
	}
	m.history = history
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2 // logo line + spacing
		footerHeight := 9 // input + status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.textarea.SetWidth(msg.Width - 4)
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.running {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case runResultMsg:
		m.running = false
		m.runs++
		m.lastRun = msg.result.Duration
		m.applyResult(msg.result)
		m.updateViewportContent()
		m.viewport.GotoBottom()
	}

	if !m.running {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyCtrlD:
		m.toggleDebug()
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyCtrlL:
		m.entries = nil
		m.updateViewportContent()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	if m.running {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(m.textarea.Value())
		if input == "" {
			return m, nil
		}
		if err := m.history.Add(input); err != nil {
			m.addEntry(EntrySystem, "History not saved: "+err.Error())
		}
		m.historyIndex = -1
		m.currentInput = ""
		m.textarea.Reset()

		cmd := m.submit(input)
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, cmd

	case tea.KeyUp:
		// Browse history only from an empty input or while already browsing,
		// so the arrow keys still move the cursor inside a multi-line script
		if m.history.Len() == 0 || (m.historyIndex == -1 && m.textarea.Value() != "") {
			break
		}
		if m.historyIndex == -1 {
			m.currentInput = m.textarea.Value()
			m.historyIndex = m.history.Len() - 1
		} else if m.historyIndex > 0 {
			m.historyIndex--
		}
		m.textarea.SetValue(m.history.At(m.historyIndex))
		m.textarea.CursorEnd()
		return m, nil

	case tea.KeyDown:
		if m.historyIndex == -1 {
			break
		}
		if m.historyIndex < m.history.Len()-1 {
			m.historyIndex++
			m.textarea.SetValue(m.history.At(m.historyIndex))
		} else {
			m.historyIndex = -1
			m.textarea.SetValue(m.currentInput)
		}
		m.textarea.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// submit dispatches console commands and starts script runs
func (m *Model) submit(input string) tea.Cmd {
	fields := strings.Fields(input)
	if !strings.Contains(input, "\n") && len(fields) > 0 {
		switch strings.ToLower(fields[0]) {
		case "about":
			m.addEntry(EntryMarkdown, renderMarkdown(m.svc.About().Markdown(), m.width-8))
			return nil
		case "setting":
			if len(fields) < 2 {
				m.addEntry(EntryError, "Usage: setting <name> [value]")
				return nil
			}
			m.changeSetting(fields[1], strings.Join(fields[2:], " "))
			return nil
		case "help":
			m.addEntry(EntrySystem, helpText)
			return nil
		}
	}

	m.addEntry(EntryScript, input)
	m.running = true
	return tea.Batch(m.spinner.Tick, m.runScript(input))
}

func (m Model) runScript(code string) tea.Cmd {
	svc := m.svc
	req := host.RunRequest{Code: code, Attachments: m.attachments}
	return func() tea.Msg {
		return runResultMsg{result: svc.Run(context.Background(), req)}
	}
}

func (m *Model) applyResult(r host.RunResult) {
	if r.Output != "" {
		m.addEntry(EntryOutput, r.Output)
	}
	if r.OK {
		m.entries = append(m.entries, Entry{
			Kind:      EntryResult,
			Content:   r.Reaction,
			Timestamp: time.Now(),
			Duration:  r.Duration,
		})
		return
	}
	m.addEntry(EntryError, r.Message)
}

func (m *Model) toggleDebug() {
	m.changeSetting("debug", "")
}

func (m *Model) changeSetting(name, value string) {
	res, err := m.svc.Setting(host.SettingRequest{Name: name, Value: value})
	if err != nil {
		m.addEntry(EntryError, err.Error())
		return
	}
	if res.Name == "debug" {
		m.debug = res.Value == "true"
	}
	m.addEntry(EntrySystem, res.Message)
}

func (m *Model) addEntry(kind EntryKind, content string) {
	m.entries = append(m.entries, Entry{Kind: kind, Content: content, Timestamp: time.Now()})
}

// Entries returns the transcript
func (m Model) Entries() []Entry {
	return m.entries
}

// Debug reports whether debug output is currently on
func (m Model) Debug() bool {
	return m.debug
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading console..."
	}

	var b strings.Builder
	b.WriteString(LogoStyle.Render("DexComX") + "  " + HelpStyle.Render(version.String()))
	b.WriteString("\n")
	b.WriteString(TranscriptStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderInputArea())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderInputArea() string {
	if m.running {
		return InputStyle.Width(m.width - 2).Render(m.spinner.View() + HelpStyle.Render(" Running script..."))
	}
	return FocusedInputStyle.Width(m.width - 2).Render(m.textarea.View())
}

func (m Model) renderStatusBar() string {
	debug := HelpStyle.Render("debug off")
	if m.debug {
		debug = DebugOnStyle.Render("debug on")
	}
	left := fmt.Sprintf("Runs: %d", m.runs)
	if m.lastRun != "" {
		left += HelpStyle.Render(" | last run " + m.lastRun)
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(debug) - 4
	if padding < 2 {
		padding = 2
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", padding) + debug)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Enter", "run"),
		RenderKeyHint("Ctrl+J", "new line"),
		RenderKeyHint("↑/↓", "history"),
		RenderKeyHint("Ctrl+D", "debug"),
		RenderKeyHint("Ctrl+L", "clear"),
		RenderKeyHint("Ctrl+C", "quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders the transcript into the viewport
func (m *Model) updateViewportContent() {
	width := m.width - 6
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	for _, e := range m.entries {
		switch e.Kind {
		case EntryScript:
			content.WriteString(LabelStyle.Render("Script") + "  " + HelpStyle.Render(e.Timestamp.Format("15:04")))
			content.WriteString("\n")
			content.WriteString(ScriptStyle.Width(width).Render(e.Content))
		case EntryOutput:
			content.WriteString(OutputStyle.Render(e.Content))
		case EntryResult:
			line := SuccessStyle.Render(e.Content)
			if e.Duration != "" {
				line += HelpStyle.Render(" (" + e.Duration + ")")
			}
			content.WriteString(OutputStyle.Render(line))
		case EntryError:
			content.WriteString(ErrorStyle.Width(width).Render(e.Content))
		case EntrySystem:
			content.WriteString(SystemStyle.Render(e.Content))
		case EntryMarkdown:
			content.WriteString(e.Content)
		}
		content.WriteString("\n\n")
	}

	m.viewport.SetContent(content.String())
}

// renderMarkdown renders md for the terminal, falling back to the raw text
func renderMarkdown(md string, width int) string {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

const helpText = `Commands:
  about                   About DexComX
  setting <name> [value]  Change a setting (debug without a value toggles)
  help                    This help
Anything else runs as a script, one command per line.`

// Run starts the console TUI
func Run(cfg Config, svc Service) error {
	p := tea.NewProgram(New(cfg, svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
