package query

import (
	"sort"
	"time"
)

// Context carries the inputs of one evaluation.
type Context struct {
	Value any
	Path  string
	Now   *time.Time
	Args  map[string]any
}

func (ctx Context) withDefaults() Context {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

func (ctx Context) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

// members returns the object members that can be bound as top-level names.
func (ctx Context) members() map[string]any {
	object, ok := ctx.Value.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(object))
	for key, value := range object {
		if _, reserved := reservedNames[key]; reserved || !isIdentifier(key) {
			continue
		}
		out[key] = value
	}
	return out
}

// memberNames returns the sorted names produced by members.
func (ctx Context) memberNames() []string {
	members := ctx.members()
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var reservedNames = map[string]struct{}{
	"value": {},
	"path":  {},
	"now":   {},
	"args":  {},
	"call":  {},
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Evaluator executes expressions against a context.
type Evaluator interface {
	Evaluate(ctx Context, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx Context) (any, error)
}

// ProgramCache stores compiled programs keyed by expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// Engine names reported by EngineName.
const (
	EngineExpr   = "expr"
	EngineCEL    = "cel"
	EngineJS     = "js"
	EngineCustom = "custom"
)

// EngineName reports which engine backs e.
func EngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return EngineExpr
	case *celEvaluator:
		return EngineCEL
	case *jsEvaluator:
		return EngineJS
	default:
		return EngineCustom
	}
}
