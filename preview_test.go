package scorecard

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func previewData() map[string]any {
	return map[string]any{
		"kpi": map[string]any{
			"total":  120,
			"target": 150,
			"label":  "Sales",
		},
		"series": []any{1, 2, 3},
	}
}

func TestPreviewSingleResolvesBindings(t *testing.T) {
	settings := &Settings{
		Dependencies: map[string]any{
			"value":    "::kpi.total",
			"color":    "green",
			"icon":     "=kpi.total > 100 ? 'trending_up' : 'trending_down'",
			"subvalue": "::kpi.missing",
		},
	}
	editor := NewEditor(settings)

	view, err := editor.Preview(context.Background(), previewData())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	single, ok := view.(SingleView)
	if !ok {
		t.Fatalf("expected SingleView, got %T", view)
	}
	want := Card{Value: "120", Color: "green", Icon: "trending_up"}
	if single.Card != want {
		t.Fatalf("expected %+v, got %+v", want, single.Card)
	}
}

func TestPreviewArrayResolvesReferenceAndLiterals(t *testing.T) {
	editor := NewEditor(map[string]any{
		"configType":   1,
		"dependencies": map[string]any{"values": "::series"},
	})
	view, err := editor.Preview(context.Background(), previewData())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	array := view.(ArrayView)
	if !reflect.DeepEqual(array.Values, []any{1, 2, 3}) {
		t.Fatalf("unexpected values %v", array.Values)
	}

	literal := NewEditor(map[string]any{
		"configType":   1,
		"dependencies": map[string]any{"values": []any{"::kpi.label", "=1 + 1", 7}},
	})
	view, err = literal.Preview(context.Background(), previewData())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if got := view.(ArrayView).Values; !reflect.DeepEqual(got, []any{"Sales", 2, 7}) {
		t.Fatalf("unexpected literal values %#v", got)
	}
}

func TestPreviewCardsUsesArgsAndFunctions(t *testing.T) {
	settings := newCardsSettings()
	settings.Dependencies["card_alpha_value"] = "=format('%.0f%%', percent(kpi.total, kpi.target))"
	settings.Dependencies["card_beta_heading"] = "=args.card + ':' + args.field"
	editor := NewEditor(settings)

	view, err := editor.Preview(context.Background(), previewData())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	cards := view.(CardsView).Cards
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %+v", cards)
	}
	if cards[0].Card.Value != "80%" || cards[0].Card.Color != "red" {
		t.Fatalf("unexpected alpha %+v", cards[0].Card)
	}
	if cards[1].Card.Heading != "beta:heading" || cards[1].Card.Icon != "x" {
		t.Fatalf("unexpected beta %+v", cards[1].Card)
	}
}

func TestPreviewReportsEvaluationErrors(t *testing.T) {
	var logged []EvaluatorLogEvent
	settings := &Settings{
		Dependencies: map[string]any{
			"value": "=kpi.total +",
			"color": "blue",
		},
	}
	editor := NewEditor(settings, WithEvaluatorLogger(EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		logged = append(logged, event)
	})))

	view, err := editor.Preview(context.Background(), previewData())
	if err == nil {
		t.Fatalf("expected evaluation error")
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T: %v", err, err)
	}
	if evalErr.Engine != "expr" || evalErr.Path != "dependencies.value" {
		t.Fatalf("unexpected error metadata %+v", evalErr)
	}
	single := view.(SingleView)
	if single.Card.Value != "" || single.Card.Color != "blue" {
		t.Fatalf("expected partial view, got %+v", single.Card)
	}
	if len(logged) != 1 || logged[0].Err == nil || !strings.Contains(logged[0].Expr, "kpi.total") {
		t.Fatalf("expected failed evaluation logged, got %+v", logged)
	}
}

func TestPreviewHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEditor(&Settings{}).Preview(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPreviewWithCELEvaluator(t *testing.T) {
	settings := &Settings{
		Dependencies: map[string]any{
			"value": "=kpi.label + '!'",
			"icon":  "=call('coalesce', ['', 'star'])",
		},
	}
	editor := NewEditor(settings, WithEvaluator(NewCELEvaluator(
		CELWithFunctionRegistry(DefaultFunctions()),
		CELWithProgramCache(NewMemoryCache()),
	)))

	view, err := editor.Preview(context.Background(), previewData())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	card := view.(SingleView).Card
	if card.Value != "Sales!" || card.Icon != "star" {
		t.Fatalf("unexpected card %+v", card)
	}
}

func TestEvaluateDefaultsSnapshotToSettings(t *testing.T) {
	editor := NewEditor(map[string]any{"id": "kpi"})
	resp, err := editor.Evaluate(RuleContext{}, "id + '-preview'")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if resp.Value != "kpi-preview" {
		t.Fatalf("unexpected value %v", resp.Value)
	}
	if _, err := editor.Evaluate(RuleContext{}, ""); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
}

func TestExprProgramCacheReused(t *testing.T) {
	cache := NewMemoryCache()
	editor := NewEditor(map[string]any{"dependencies": map[string]any{"value": "=kpi.total * 2"}}, WithProgramCache(cache))

	for i := 0; i < 3; i++ {
		view, err := editor.Preview(context.Background(), previewData())
		if err != nil {
			t.Fatalf("Preview: %v", err)
		}
		if got := view.(SingleView).Card.Value; got != "240" {
			t.Fatalf("unexpected value %q", got)
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached program, got %d", cache.Len())
	}
}
