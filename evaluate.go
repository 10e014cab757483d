package storepath

import (
	"context"
	"time"

	"github.com/goliatone/go-storepath/pkg/query"
)

// Evaluate reads the value at path (absent reads as nil) and evaluates
// expression against it with the configured evaluator.
func (a *Accessor) Evaluate(ctx context.Context, path any, expression string) (any, error) {
	return a.EvaluateWith(ctx, path, expression, nil)
}

// EvaluateWith is Evaluate with caller supplied args bound as args.
func (a *Accessor) EvaluateWith(ctx context.Context, path any, expression string, args map[string]any) (any, error) {
	p := a.Parse(path)
	start := time.Now()
	evaluator := a.evaluator
	event := AccessLogEvent{Op: OpEvaluate, Engine: query.EngineName(evaluator), Expr: expression}

	result, err := a.evaluate(ctx, p, evaluator, expression, args)
	event.Duration, event.Err = time.Since(start), err
	a.logAccess(event, p)
	return result, err
}

func (a *Accessor) evaluate(ctx context.Context, p Path, evaluator query.Evaluator, expression string, args map[string]any) (any, error) {
	if expression == "" {
		return nil, query.WrapEvaluationError(query.EngineName(evaluator), expression, p.Raw, query.ErrEmptyExpression)
	}
	value, err := a.read(ctx, p, nil)
	if err != nil {
		return nil, err
	}
	now := a.cfg.now()
	result, err := evaluator.Evaluate(query.Context{
		Value: ToPlain(value),
		Path:  p.Raw,
		Now:   &now,
		Args:  args,
	}, expression)
	if err != nil {
		return nil, query.WrapEvaluationError(query.EngineName(evaluator), expression, p.Raw, err)
	}
	return result, nil
}

// resolveEvaluator returns the configured evaluator or an expr-lang evaluator
// sharing the configured cache and functions.
func resolveEvaluator(cfg accessorConfig) query.Evaluator {
	if cfg.evaluator != nil {
		return cfg.evaluator
	}
	var exprOpts []query.ExprOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, query.ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, query.ExprWithFunctionRegistry(cfg.functions))
	}
	return query.NewExprEvaluator(exprOpts...)
}
