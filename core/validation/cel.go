package validation

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// celCompiler compiles rule expressions in an environment where the object
// under validation is bound to `self`.
type celCompiler struct {
	env *cel.Env
}

type celProgram struct {
	program    cel.Program
	expression string
}

// NewCompiler creates the CEL compiler used for product rules.
func NewCompiler() (Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("self", cel.DynType),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &celCompiler{env: env}, nil
}

// Compile parses and type-checks expression.
func (c *celCompiler) Compile(expression string) (Program, error) {
	if expression == "" {
		return nil, fmt.Errorf("rule expression cannot be empty")
	}

	ast, issues := c.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile rule %q: %w", expression, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("rule %q must evaluate to bool, not %s", expression, out)
	}

	program, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build program for rule %q: %w", expression, err)
	}
	return &celProgram{program: program, expression: expression}, nil
}

func (p *celProgram) Eval(ctx context.Context, self map[string]interface{}) (bool, error) {
	result, _, err := p.program.ContextEval(ctx, map[string]interface{}{"self": self})
	if err != nil {
		return false, err
	}
	ok, isBool := result.(types.Bool)
	if !isBool {
		return false, fmt.Errorf("rule %q returned %s, not bool", p.expression, result.Type().TypeName())
	}
	return bool(ok), nil
}
