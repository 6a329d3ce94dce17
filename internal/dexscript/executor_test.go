package dexscript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
)

func TestExecuteRunsLinesInOrder(t *testing.T) {
	exec, rec := newTestExecutor(t)

	script := "```\n" +
		"-- setup\n" +
		"create > Regime > Monarchy > name > Monarchy\n" +
		"Regime > create > Republic\n" +
		"o.run Ball.enable > Germany > false\n" +
		"ls > Ball\n" +
		"```"

	report, err := exec.Execute(context.Background(), RemoveCodeMarkdown(script), nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if report.Err() != nil {
		t.Fatalf("report.Err() = %v", report.Err())
	}

	want := []string{
		"Global.create(Regime, Monarchy, name, Monarchy)",
		"Regime.create(Republic)",
		"Ball.enable(Germany, false)",
		"Global.list_dir(Ball)",
	}
	if diff := cmp.Diff(want, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if report.Lines != 4 || report.Executed != 4 {
		t.Errorf("Lines/Executed = %d/%d, want 4/4", report.Lines, report.Executed)
	}
	if report.RunID == "" {
		t.Error("report should carry the run id")
	}
}

func TestExecuteIsolatesLineErrors(t *testing.T) {
	exec, rec := newTestExecutor(t)

	script := strings.Join([]string{
		"Ball > view > Germany",
		"frobnicate > Ball",
		"Ball",
		"Ball > explode > Germany",
		"Ball > enable > Germany",
		"del > Ball",
		"Ball > count",
	}, "\n")

	report, err := exec.Execute(context.Background(), script, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	wantCalls := []string{"Ball.view(Germany)", "Ball.count()"}
	if diff := cmp.Diff(wantCalls, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	want := strings.Join([]string{
		"Line 2: 'frobnicate' is not a valid command.",
		"Line 3: missing method after 'Ball'.",
		"Line 4: 'explode' is not a valid method for 'Ball'.",
		"Line 5: argument missing when calling 'enable'.",
		"Line 6: argument missing when calling 'delete'.",
	}, "\n")
	if report.String() != want {
		t.Errorf("report =\n%s\nwant\n%s", report, want)
	}

	kinds := make([]ErrorKind, len(report.Errors))
	for i, le := range report.Errors {
		kinds[i] = le.Kind
	}
	wantKinds := []ErrorKind{UnknownCommand, MissingMethod, UnknownMethod, MissingArgument, MissingArgument}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}

	rerr := report.Err()
	if !mdwerror.HasCode(rerr, mdwerror.CodeUnknownCommand) {
		t.Errorf("report.Err() code = %v", mdwerror.GetCode(rerr))
	}
	if report.Executed != 2 || report.Lines != 7 {
		t.Errorf("Lines/Executed = %d/%d", report.Lines, report.Executed)
	}
}

func TestExecuteUnknownCommandOnSecondLine(t *testing.T) {
	exec, rec := newTestExecutor(t)

	report, err := exec.Execute(context.Background(), "Regime > create > Monarchy\nnope > x", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Calls()) != 1 {
		t.Errorf("line 1 should have run, calls = %v", rec.Calls())
	}
	if len(report.Errors) != 1 || !strings.Contains(report.String(), "Line 2") {
		t.Errorf("report = %q", report)
	}
}

func TestExecuteSeparatorOnlyLineKeepsNumbering(t *testing.T) {
	exec, rec := newTestExecutor(t)

	report, err := exec.Execute(context.Background(), ">\nnope > x", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("calls = %v, want none", rec.Calls())
	}
	if got, want := report.String(), "Line 2: 'nope' is not a valid command."; got != want {
		t.Errorf("report = %q, want %q", got, want)
	}
	if report.Lines != 2 || report.Executed != 0 {
		t.Errorf("Lines/Executed = %d/%d, want 2/0", report.Lines, report.Executed)
	}
}

func TestExecuteCommentsAndBlanksOnly(t *testing.T) {
	exec, rec := newTestExecutor(t)

	report, err := exec.Execute(context.Background(), "-- nothing\n\n   \n.", nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Err() != nil || report.String() != "" {
		t.Errorf("report = %q", report)
	}
	if len(rec.Calls()) != 0 || len(rec.shareds) != 0 {
		t.Error("no command should have been instantiated")
	}
}

func TestExecuteUnresolvedModelAbortsRun(t *testing.T) {
	exec, rec := newTestExecutor(t)

	script := "Regime > create > Monarchy\nview > Trade > 1"
	report, err := exec.Execute(context.Background(), script, nil)

	if !mdwerror.HasCode(err, mdwerror.CodeUnresolvedModel) {
		t.Fatalf("Execute() error = %v, want UNRESOLVED_MODEL", err)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("no line may run, calls = %v", rec.Calls())
	}
	if report == nil || report.Executed != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestExecuteCommandErrorIsFatal(t *testing.T) {
	exec, rec := newTestExecutor(t)

	script := "Ball > count\nBall > fail\nBall > count"
	report, err := exec.Execute(context.Background(), script, nil)

	if !errors.Is(err, errBoom) {
		t.Fatalf("Execute() error = %v, want errBoom in chain", err)
	}
	if !mdwerror.HasCode(err, mdwerror.CodeCommandFailed) {
		t.Errorf("code = %v", mdwerror.GetCode(err))
	}
	if !strings.HasPrefix(err.Error(), "Line 2: boom") {
		t.Errorf("message = %q", err.Error())
	}
	if diff := cmp.Diff([]string{"Ball.count()"}, rec.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if report.Executed != 1 {
		t.Errorf("Executed = %d, want 1", report.Executed)
	}
}

func TestExecuteKeepsCodedCommandErrors(t *testing.T) {
	notFound := mdwerror.New("Ball 'Atlantis' does not exist").WithCode(mdwerror.CodeNotFound)
	factory := func(rt Runtime, shared *Shared) (Instance, error) { return nil, nil }
	ns, err := NewNamespace(&Class{
		Name: "Ball",
		New:  factory,
		Methods: map[string]*Method{"view": {Name: "view", MinArgs: 1, MaxArgs: 1,
			Call: func(ctx context.Context, inst Instance, args []Value) error { return notFound }}},
	})
	if err != nil {
		t.Fatal(err)
	}
	exec, _ := New(Options{Namespace: ns, Logger: mdwlog.Discard()})

	_, err = exec.Execute(context.Background(), "Ball > view > Atlantis", nil)
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("code = %v, want NOT_FOUND", mdwerror.GetCode(err))
	}
}

func TestExecuteSharesContextAcrossLines(t *testing.T) {
	exec, rec := newTestExecutor(t)
	shared := NewShared(Attachment{Name: "germany.png", Size: 3})

	_, err := exec.Execute(context.Background(), "Ball > count\nRegime > create > X\nls > Ball", shared)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.shareds) != 3 {
		t.Fatalf("factories ran %d times, want 3", len(rec.shareds))
	}
	for i, s := range rec.shareds {
		if s != shared {
			t.Errorf("line %d got a different shared context", i+1)
		}
	}
}

func TestExecuteStopsWhenCancelled(t *testing.T) {
	exec, rec := newTestExecutor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := exec.Execute(ctx, "Ball > count", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if len(rec.Calls()) != 0 || report.Executed != 0 {
		t.Error("nothing should run after cancellation")
	}
}

func TestReportDebugRendering(t *testing.T) {
	exec, _ := newTestExecutor(t)

	report, err := exec.WithDebug(true).Execute(context.Background(), "nope", nil)
	if err != nil {
		t.Fatal(err)
	}
	out := report.String()
	for _, want := range []string{"Error: Line 1: 'nope' is not a valid command.", "Code: SCRIPT_UNKNOWN_COMMAND", "Traceback:"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug report missing %q:\n%s", want, out)
		}
	}

	// the original executor is unchanged
	report, _ = exec.Execute(context.Background(), "nope", nil)
	if report.String() != "Line 1: 'nope' is not a valid command." {
		t.Errorf("terse report = %q", report)
	}
}

func TestParse(t *testing.T) {
	exec, _ := newTestExecutor(t)

	lines, err := exec.Parse("update > Ball > Germany > enabled > false\n-- c\nSpecial > 2024-12-01")
	if err != nil {
		t.Fatal(err)
	}

	var got [][]TokenKind
	for _, line := range lines {
		var kinds []TokenKind
		for _, v := range line {
			kinds = append(kinds, v.Kind)
		}
		got = append(got, kinds)
	}
	want := [][]TokenKind{
		{KindMethod, KindClass, KindDefault, KindDefault, KindBoolean},
		{KindModel, KindDatetime},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRequiresNamespace(t *testing.T) {
	if _, err := New(Options{}); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("New() error = %v", err)
	}
}

func TestConcurrentRuns(t *testing.T) {
	exec, rec := newTestExecutor(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			script := fmt.Sprintf("Regime > create > R%d\nBall > view > B%d", i, i)
			if _, err := exec.Execute(context.Background(), script, nil); err != nil {
				t.Errorf("run %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if n := len(rec.Calls()); n != 16 {
		t.Errorf("calls = %d, want 16", n)
	}

	runs := map[string]bool{}
	for _, s := range rec.shareds {
		runs[s.RunID] = true
	}
	if len(runs) != 8 {
		t.Errorf("distinct run ids = %d, want 8", len(runs))
	}
}
