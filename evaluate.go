package scorecard

import (
	"time"
)

// Evaluate runs expr with the editor's evaluator. A nil ctx.Snapshot falls
// back to the settings being edited.
func (e *Editor) Evaluate(ctx RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, ErrEmptyExpression
	}
	evaluator, err := e.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = e.settings
	}
	ctx = ctx.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, expr, ctx.pathLabel(), evalErr)
	e.cfg.evaluatorLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Path:     ctx.pathLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

// resolveEvaluator returns the configured evaluator or lazily builds the expr
// default with the editor's cache and functions.
func (e *Editor) resolveEvaluator() (Evaluator, error) {
	if e.cfg.evaluator != nil {
		return e.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if e.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(e.cfg.programCache))
	}
	registry := e.cfg.functions
	if registry == nil {
		registry = DefaultFunctions()
	}
	exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	e.cfg.evaluator = evaluator
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if name, ok := e.(interface{ Engine() string }); ok {
			return name.Engine()
		}
		return "custom"
	}
}
