package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-scorecard"
	"github.com/goliatone/go-scorecard/internal/config"
	"github.com/goliatone/go-scorecard/pkg/state"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		path string
		raw  string
		want any
	}{
		{path: "size.w", raw: "6", want: 6},
		{path: "configType", raw: "2", want: 2},
		{path: "id", raw: "revenue", want: "revenue"},
		{path: "id", raw: "", want: ""},
		{path: "dependencies.value", raw: "42", want: "42"},
		{path: "dependencies.card_alpha_value", raw: "::kpi.total", want: "::kpi.total"},
		{path: "id", raw: "[1, 2]", want: "[1, 2]"},
	}
	for _, tc := range cases {
		if got := parseValue(tc.path, tc.raw); got != tc.want {
			t.Fatalf("parseValue(%q, %q): expected %#v, got %#v", tc.path, tc.raw, tc.want, got)
		}
	}
}

func TestBuildEvaluator(t *testing.T) {
	if evaluator, err := buildEvaluator(config.EngineExpr, 0); err != nil || evaluator != nil {
		t.Fatalf("expected default evaluator for expr, got %v %v", evaluator, err)
	}
	if evaluator, err := buildEvaluator("CEL", 0); err != nil || evaluator == nil {
		t.Fatalf("expected cel evaluator, got %v %v", evaluator, err)
	}
	_, err := buildEvaluator(config.EngineJS, time.Second)
	if scorecard.JSEvaluatorAvailable() == (err != nil) {
		t.Fatalf("js availability %v disagrees with error %v", scorecard.JSEvaluatorAvailable(), err)
	}
	if _, err := buildEvaluator("lua", 0); err == nil {
		t.Fatalf("expected error for unknown engine")
	}
}

func TestEditorOptionsWarnOnDroppedWrites(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := editorOptions(config.Config{Editor: config.EditorConfig{Engine: "expr", ActivityLog: true}}, &stderr)
	if err != nil {
		t.Fatalf("editorOptions: %v", err)
	}
	editor := scorecard.NewEditor(map[string]any{"id": "kpi"}, opts...)
	if err := editor.OnChange(context.Background(), "dependencies.value", "1"); err != nil {
		t.Fatalf("OnChange: %v", err)
	}
	out := stderr.String()
	if !strings.Contains(out, "Warning:") || !strings.Contains(out, "path=dependencies.value") {
		t.Fatalf("expected dropped write warning, got %q", out)
	}
	if !strings.Contains(out, "activity: scorecard.setting.dropped") {
		t.Fatalf("expected activity log line, got %q", out)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kpi.yaml")
	if err := os.WriteFile(path, []byte("id: kpi\nconfigType: 2\ndependencies:\n  card_alpha_value: \"5\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := openSession(ctx, path)
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	if s.editor.ConfigType() != scorecard.ConfigCards {
		t.Fatalf("expected cards mode, got %v", s.editor.ConfigType())
	}
	if got := scorecard.Get(s.settings, "size.w"); got != scorecard.DefaultWidth {
		t.Fatalf("expected default width merged in, got %v", got)
	}
	if err := s.editor.OnChange(ctx, "dependencies.card_beta_icon", "x"); err != nil {
		t.Fatalf("OnChange: %v", err)
	}
	if err := s.save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	saved, err := state.ReadFile[map[string]any](path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	deps := saved["dependencies"].(map[string]any)
	if deps["card_beta_icon"] != "x" || deps["card_alpha_value"] != "5" {
		t.Fatalf("unexpected saved dependencies %v", deps)
	}

	if err := os.WriteFile(path, []byte("id: changed\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.save(ctx); !errors.Is(err, state.ErrETagMismatch) {
		t.Fatalf("expected ErrETagMismatch after external edit, got %v", err)
	}
}

func TestOutputFormat(t *testing.T) {
	if outputFormat(config.Config{}) != state.FormatYAML {
		t.Fatalf("expected yaml by default")
	}
	if outputFormat(config.Config{Output: config.OutputConfig{Format: "JSON"}}) != state.FormatJSON {
		t.Fatalf("expected json")
	}
}

func TestJSONTreeKeepsFieldNames(t *testing.T) {
	tree, err := jsonTree(scorecard.SingleView{Card: scorecard.Card{Value: "1"}})
	if err != nil {
		t.Fatalf("jsonTree: %v", err)
	}
	card := tree.(map[string]any)["card"].(map[string]any)
	if card["value"] != "1" || card["className"] != "" {
		t.Fatalf("unexpected tree %v", tree)
	}
}
