package schema

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/stephenplusplus/gcloud-datastore-schema/pkg/domain"
)

// Expr compiles a CEL expression into a predicate descriptor. The value under
// test is bound to the variable "value"; the expression must evaluate to a bool.
//
//	fullName, err := schema.Expr(`value.contains(" ")`)
//
// Evaluation errors and non-bool results fail the predicate.
func Expr(expr string) (*PredicateType, error) {
	env, err := cel.NewEnv(cel.Variable("value", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("failed to create expression environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, iss.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}

	return &PredicateType{
		name: "Expr",
		expr: expr,
		fn: func(value any) bool {
			out, _, err := prg.Eval(map[string]any{"value": celValue(value)})
			if err != nil {
				return false
			}
			b, ok := out.Value().(bool)
			return ok && b
		},
	}, nil
}

// MustExpr is like Expr but panics on an invalid expression.
// It is meant for schemas declared as package-level literals.
func MustExpr(expr string) *PredicateType {
	p, err := Expr(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Expression returns the CEL source of predicates created by Expr.
func (t *PredicateType) Expression() string { return t.expr }

// celValue lowers opaque values to types the CEL runtime understands.
func celValue(value any) any {
	switch v := indirect(value).(type) {
	case domain.Double:
		return float64(v)
	case domain.Int:
		return int64(v)
	case domain.GeoPoint:
		return map[string]any{"latitude": v.Latitude, "longitude": v.Longitude}
	case nil:
		return nil
	default:
		return v
	}
}
