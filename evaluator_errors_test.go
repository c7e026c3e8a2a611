package scorecard

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "kpi.total > 10", "dependencies.value", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", evalErr.Engine)
	}
	if evalErr.Expr != "kpi.total > 10" {
		t.Fatalf("expected expression metadata, got %q", evalErr.Expr)
	}
	if evalErr.Path != "dependencies.value" {
		t.Fatalf("expected path metadata, got %q", evalErr.Path)
	}
	if !errors.Is(evalErr.Err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
	if !strings.Contains(err.Error(), `expr="kpi.total > 10"`) {
		t.Fatalf("expected expression in message, got %q", err.Error())
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapEvaluationError("cel", "rule", "dependencies.card_a_value", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" {
		t.Fatalf("expression should be filled, got %q", existing.Expr)
	}
	if existing.Path != "dependencies.card_a_value" {
		t.Fatalf("path should be filled, got %q", existing.Path)
	}
}

func TestWrapEvaluatorErrorKeepsPrefixedErrors(t *testing.T) {
	if err := wrapEvaluatorError("expr", nil); err != nil {
		t.Fatalf("expected nil passthrough, got %v", err)
	}
	err := wrapEvaluatorError("cel", ErrEmptyExpression)
	if err != ErrEmptyExpression {
		t.Fatalf("expected prefixed error to pass through, got %v", err)
	}
	wrapped := wrapEvaluatorError("cel", errors.New("bad"))
	if wrapped.Error() != "scorecard: cel evaluator: bad" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
}
