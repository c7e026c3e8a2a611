package scorecard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoEvaluator indicates an "=" binding was found but no evaluator
	// could be resolved.
	ErrNoEvaluator = errors.New("scorecard: evaluator not configured")
	// ErrEmptyExpression indicates an "=" binding without an expression.
	ErrEmptyExpression = errors.New("scorecard: expression must not be empty")
)

// EvaluationError captures binding metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Path   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("scorecard: %s evaluator %s path=%s: %v", e.Engine, describeExpression(e.Expr), e.Path, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "scorecard:") {
		return err
	}
	return fmt.Errorf("scorecard: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, path string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Path == "" {
			evalErr.Path = path
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Path:   path,
		Err:    err,
	}
}
