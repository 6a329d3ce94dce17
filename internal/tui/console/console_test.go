package console

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	"github.com/msto63/dexcomx/internal/host"
)

type fakeService struct {
	runs  []host.RunRequest
	debug bool
	reply host.RunResult
}

func (f *fakeService) Run(_ context.Context, req host.RunRequest) host.RunResult {
	f.runs = append(f.runs, req)
	return f.reply
}

func (f *fakeService) About() host.AboutInfo {
	return host.AboutInfo{Title: "DexComX", Description: "About text", Footer: "DexComX 1.0"}
}

func (f *fakeService) Setting(req host.SettingRequest) (host.SettingResult, error) {
	if req.Name != "debug" {
		return host.SettingResult{}, mdwerror.New("`" + req.Name + "` is not a valid setting.").WithCode(mdwerror.CodeNotFound)
	}
	f.debug = !f.debug
	value := "false"
	if f.debug {
		value = "true"
	}
	return host.SettingResult{Name: "debug", Value: value, Message: "`debug` has been set to `" + value + "`"}, nil
}

func newTestModel(t *testing.T, svc Service) Model {
	t.Helper()
	m := New(Config{HistoryFile: filepath.Join(t.TempDir(), "history.json"), HistorySize: 3}, svc)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func typeText(m Model, text string) Model {
	m.textarea.SetValue(text)
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model), cmd
}

func lastEntry(t *testing.T, m Model) Entry {
	t.Helper()
	entries := m.Entries()
	if len(entries) == 0 {
		t.Fatal("transcript is empty")
	}
	return entries[len(entries)-1]
}

func TestEnterRunsScript(t *testing.T) {
	svc := &fakeService{reply: host.RunResult{OK: true, Reaction: host.SuccessReaction, Output: "Ball 'France'", Duration: "1ms"}}
	m := newTestModel(t, svc)

	m = typeText(m, "view > ball > France")
	m, cmd := press(t, m, tea.KeyEnter)
	if !m.running {
		t.Fatal("model should be running after Enter")
	}
	if cmd == nil {
		t.Fatal("Enter should return a command")
	}
	if m.textarea.Value() != "" {
		t.Errorf("input not cleared: %q", m.textarea.Value())
	}

	// Run the script command directly instead of the batched spinner tick
	msg := m.runScript("view > ball > France")()
	updated, _ := m.Update(msg)
	m = updated.(Model)

	if m.running {
		t.Error("model still running after the result arrived")
	}
	if len(svc.runs) != 1 || svc.runs[0].Code != "view > ball > France" {
		t.Errorf("runs = %+v", svc.runs)
	}

	var kinds []EntryKind
	for _, e := range m.Entries() {
		kinds = append(kinds, e.Kind)
	}
	if diff := cmp.Diff([]EntryKind{EntryScript, EntryOutput, EntryResult}, kinds); diff != "" {
		t.Errorf("entry kinds mismatch (-want +got):\n%s", diff)
	}
	if m.runs != 1 || m.lastRun != "1ms" {
		t.Errorf("runs = %d, lastRun = %q", m.runs, m.lastRun)
	}
}

func TestFailedRunShowsError(t *testing.T) {
	svc := &fakeService{reply: host.RunResult{Message: "ERROR: Line 1: 'x' is not a valid command."}}
	m := newTestModel(t, svc)

	m.submit("x")
	updated, _ := m.Update(m.runScript("x")())
	m = updated.(Model)

	e := lastEntry(t, m)
	if e.Kind != EntryError || e.Content != svc.reply.Message {
		t.Errorf("last entry = %+v", e)
	}
}

func TestEnterIgnoredWhileRunning(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)
	m.running = true

	m = typeText(m, "count > ball")
	m, cmd := press(t, m, tea.KeyEnter)
	if cmd != nil {
		t.Error("Enter during a run should not start another")
	}
	if m.history.Len() != 0 {
		t.Error("ignored input should not reach the history")
	}
}

func TestCtrlDTogglesDebug(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)

	m, _ = press(t, m, tea.KeyCtrlD)
	if !m.Debug() {
		t.Fatal("debug should be on after Ctrl+D")
	}
	if e := lastEntry(t, m); e.Content != "`debug` has been set to `true`" {
		t.Errorf("entry = %q", e.Content)
	}

	m, _ = press(t, m, tea.KeyCtrlD)
	if m.Debug() {
		t.Error("debug should be off after the second Ctrl+D")
	}
}

func TestConsoleCommands(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc)

	if cmd := m.submit("about"); cmd != nil {
		t.Error("about should not start a run")
	}
	if e := lastEntry(t, m); e.Kind != EntryMarkdown || !strings.Contains(e.Content, "About text") {
		t.Errorf("about entry = %+v", e)
	}

	m.submit("setting verbose on")
	if e := lastEntry(t, m); e.Kind != EntryError || e.Content != "`verbose` is not a valid setting." {
		t.Errorf("setting entry = %+v", e)
	}

	m.submit("setting")
	if e := lastEntry(t, m); e.Kind != EntryError {
		t.Errorf("missing setting name should be an error, got %+v", e)
	}

	m.submit("help")
	if e := lastEntry(t, m); e.Kind != EntrySystem {
		t.Errorf("help entry = %+v", e)
	}

	if len(svc.runs) != 0 {
		t.Errorf("console commands reached the engine: %+v", svc.runs)
	}
}

func TestMultiLineAboutIsAScript(t *testing.T) {
	m := newTestModel(t, &fakeService{})
	if cmd := m.submit("about\ncount > ball"); cmd == nil {
		t.Error("multi-line input should run as a script")
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestModel(t, &fakeService{reply: host.RunResult{OK: true}})
	for _, s := range []string{"count > ball", "ls > regime"} {
		m = typeText(m, s)
		m, _ = press(t, m, tea.KeyEnter)
		m.running = false
	}

	m, _ = press(t, m, tea.KeyUp)
	if got := m.textarea.Value(); got != "ls > regime" {
		t.Errorf("first Up = %q", got)
	}
	m, _ = press(t, m, tea.KeyUp)
	if got := m.textarea.Value(); got != "count > ball" {
		t.Errorf("second Up = %q", got)
	}
	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyDown)
	if got := m.textarea.Value(); got != "" {
		t.Errorf("Down past the end should restore the draft, got %q", got)
	}
}

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.json")

	h, err := LoadHistory(path, 2)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	for _, s := range []string{"a", "b", "b", "c"} {
		if err := h.Add(s); err != nil {
			t.Fatalf("Add(%q) error = %v", s, err)
		}
	}

	reloaded, err := LoadHistory(path, 2)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if diff := cmp.Diff([]string{"b", "c"}, reloaded.Entries()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	h, err := LoadHistory(path, 0)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestViewRenders(t *testing.T) {
	m := New(Config{}, &fakeService{})
	if got := m.View(); got != "Loading console..." {
		t.Errorf("View() before sizing = %q", got)
	}

	m = newTestModel(t, &fakeService{})
	m.debug = true
	view := m.View()
	for _, want := range []string{"DexComX", "debug on", "Ctrl+D"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
