// Package query evaluates expressions against a value resolved from the store.
//
// Three engines share one binding model:
//
//	value    the resolved value in plain Go form (maps, slices, float64, ...)
//	<member> every top-level member of an object value whose name is a valid
//	         identifier and does not collide with a reserved name
//	path     the path the value was resolved from
//	now      evaluation timestamp
//	args     caller supplied arguments
//	call     call(name, ...) dispatch into a FunctionRegistry, when configured
//
// expr-lang/expr is the default engine. CEL (google/cel-go) type-checks the
// expression against the binding before running it; JS (dop251/goja) wraps the
// expression in a function body and runs it in a fresh runtime per call.
package query
