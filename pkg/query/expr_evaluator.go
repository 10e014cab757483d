package query

import (
	"strings"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprOption configures an expr evaluator instance.
type ExprOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr evaluator.
// Registered functions are callable by name and through call(name, ...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprOption {
	return func(e *exprEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs an Evaluator backed by github.com/expr-lang/expr.
func NewExprEvaluator(opts ...ExprOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	if expression == "" {
		return nil, WrapEvaluationError(EngineExpr, expression, ctx.Path, ErrEmptyExpression)
	}
	ctx = ctx.withDefaults()
	program, err := e.loadOrCompile(expression, ctx.memberNames())
	if err != nil {
		return nil, WrapEvaluationError(EngineExpr, expression, ctx.Path, err)
	}
	return e.run(ctx, expression, program)
}

// Compile checks the expression against the fixed bindings. Member names are
// only known per value, so the rule recompiles (through the cache) when the
// evaluated value exposes members.
func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, WrapEvaluationError(EngineExpr, expression, "", ErrEmptyExpression)
	}
	program, err := e.loadOrCompile(expression, nil)
	if err != nil {
		return nil, WrapEvaluationError(EngineExpr, expression, "", err)
	}
	return &exprCompiledRule{evaluator: e, program: program, expression: expression}, nil
}

func (e *exprEvaluator) run(ctx Context, expression string, program *exprvm.Program) (any, error) {
	result, err := exprlang.Run(program, e.environment(ctx))
	if err != nil {
		return nil, WrapEvaluationError(EngineExpr, expression, ctx.Path, err)
	}
	return result, nil
}

// loadOrCompile compiles against every name the environment will bind so
// those names take precedence over expr builtins such as now, len or max.
// The cache key carries the bound member and function names because the
// checked program depends on them.
func (e *exprEvaluator) loadOrCompile(expression string, members []string) (*exprvm.Program, error) {
	functions := e.registry.Names()
	key := EngineExpr + ":" + expression + "|" + strings.Join(members, ",") + "|" + strings.Join(functions, ",")
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}

	env := map[string]any{
		"value": nil,
		"path":  "",
		"now":   time.Time{},
		"args":  map[string]any{},
	}
	for _, name := range members {
		env[name] = nil
	}
	if e.registry != nil {
		env["call"] = func(string, ...any) (any, error) { return nil, nil }
		for _, name := range functions {
			if _, taken := env[name]; !taken {
				env[name] = Function(func(...any) (any, error) { return nil, nil })
			}
		}
	}

	options := []exprlang.Option{
		exprlang.Env(env),
		exprlang.AllowUndefinedVariables(),
	}
	for name := range env {
		options = append(options, exprlang.DisableBuiltin(name))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *exprEvaluator) environment(ctx Context) map[string]any {
	env := ctx.members()
	if env == nil {
		env = map[string]any{}
	}
	env["value"] = ctx.Value
	env["path"] = ctx.Path
	env["now"] = ctx.timestamp()
	env["args"] = ctx.Args
	if e.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		for _, name := range e.registry.Names() {
			if _, taken := env[name]; taken {
				continue
			}
			fn := name
			env[fn] = Function(func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
	return env
}

type exprCompiledRule struct {
	evaluator  *exprEvaluator
	program    *exprvm.Program
	expression string
}

func (r *exprCompiledRule) Evaluate(ctx Context) (any, error) {
	ctx = ctx.withDefaults()
	program := r.program
	if members := ctx.memberNames(); len(members) > 0 {
		compiled, err := r.evaluator.loadOrCompile(r.expression, members)
		if err != nil {
			return nil, WrapEvaluationError(EngineExpr, r.expression, ctx.Path, err)
		}
		program = compiled
	}
	return r.evaluator.run(ctx, r.expression, program)
}
