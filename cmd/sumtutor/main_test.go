package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"sumtutor/internal/addition"
	"sumtutor/internal/history"
	"sumtutor/internal/history/sqlite"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

// run executes the root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runContext(t, context.Background(), args...)
}

func runContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	verbose, historyPath, audience, randomPhrases = false, "", string(addition.AudienceKid), false
	addDelay, addQuiet, explainJSON, historyLimit = 0, false, false, history.DefaultListLimit
	// Cobra only hands the root context to subcommands whose context is nil.
	for _, c := range rootCmd.Commands() {
		c.SetContext(nil)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return plain(out.String()), err
}

func TestRenderBoard(t *testing.T) {
	result, steps, err := addition.Calculate([]string{"58.7", "63.45"})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	board := plain(renderBoard(result.Aligned, steps, noActive))
	lines := strings.Split(board, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 board lines, got %d:\n%s", len(lines), board)
	}

	want := []string{
		"    D U  d c",
		"    1 1     ",
		"    5 8, 7 0",
		"  + 6 3, 4 5",
		"",
		"  1 2 2, 1 5",
	}
	for i, w := range want {
		if i == 4 {
			if !strings.HasPrefix(lines[i], "──") {
				t.Fatalf("expected a rule on line %d, got %q", i, lines[i])
			}
			continue
		}
		if lines[i] != w {
			t.Fatalf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
}

func TestRenderBoardPartial(t *testing.T) {
	result, steps, err := addition.Calculate([]string{"99", "1"})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	board := plain(renderBoard(result.Aligned, steps[:1], 0))
	lines := strings.Split(board, "\n")
	if got := lines[len(lines)-1]; got != "      0" {
		t.Fatalf("expected only the units digit so far, got %q", got)
	}
}

func TestAddCommand(t *testing.T) {
	out, err := run(t, "add", "58.7", "63,45", "--delay", "0")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if !strings.Contains(out, "58,7 + 63,45 = 122,15") {
		t.Fatalf("expected final equation in output:\n%s", out)
	}
	if !strings.Contains(out, "nos llevamos") {
		t.Fatalf("expected carry narration in output:\n%s", out)
	}
}

func TestAddCommandQuiet(t *testing.T) {
	out, err := run(t, "add", "1", "2", "--quiet")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "1 + 2 = 3") {
		t.Fatalf("expected final equation in output:\n%s", out)
	}
}

func TestAddCommandErrors(t *testing.T) {
	if _, err := run(t, "add", "5"); err == nil || !strings.Contains(err.Error(), "at least 2") {
		t.Fatalf("expected insufficient operands error, got %v", err)
	}
	if _, err := run(t, "add", "1.2.3", "4"); err == nil {
		t.Fatal("expected invalid operand error")
	}
	if _, err := run(t, "add", "1", "2", "--audience", "robot"); err == nil {
		t.Fatal("expected unknown audience error")
	}
}

func TestExplainJSON(t *testing.T) {
	out, err := run(t, "explain", "9", "9", "9", "--json")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}

	var payload struct {
		Steps  []json.RawMessage `json:"steps"`
		Result string            `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decoding explain output: %v\n%s", err, out)
	}
	if payload.Result != "27" || len(payload.Steps) != 2 {
		t.Fatalf("expected 27 in 2 steps, got %q in %d", payload.Result, len(payload.Steps))
	}
}

func TestExplainText(t *testing.T) {
	out, err := run(t, "explain", "0.5", "0.5")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	for _, want := range []string{"1. décimos", "2. unidades", "0,5 + 0,5 = 1,0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAddRecordsHistoryWhenInterrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := runContext(t, ctx, "add", "58.7", "63.45", "--delay", "1h", "--history", path)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the animation to be cut short, got %v", err)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	calcs, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(calcs) != 1 || calcs[0].Result != "122.15" {
		t.Fatalf("expected the interrupted calculation in history, got %+v", calcs)
	}
}

func TestHistoryCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	if _, err := run(t, "history", "--history", path); err != nil {
		t.Fatalf("empty history: %v", err)
	}
	if _, err := run(t, "add", "12.5", "7.25", "--history", path); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := run(t, "history", "--history", path)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "12,5 + 7,25 = 19,75") {
		t.Fatalf("expected stored equation in list:\n%s", out)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	calcs, err := store.List(context.Background(), 1)
	store.Close()
	if err != nil || len(calcs) != 1 {
		t.Fatalf("expected one stored calculation, got %d (%v)", len(calcs), err)
	}

	out, err = run(t, "history", "show", calcs[0].ID, "--history", path)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	if strings.Contains(out, "lo pusimos nosotros") {
		t.Fatalf("did not expect the padding remark when showing history:\n%s", out)
	}
	if !strings.Contains(out, "12,5 + 7,25 = 19,75") {
		t.Fatalf("expected equation in detail:\n%s", out)
	}

	if _, err := run(t, "history"); err == nil {
		t.Fatal("expected an error without a history file")
	}
}

func TestMotivationCommand(t *testing.T) {
	out, err := run(t, "motivation", "--audience", "adult")
	if err != nil {
		t.Fatalf("motivation: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatal("expected a phrase")
	}
}
