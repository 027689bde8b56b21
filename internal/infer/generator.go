// Package infer implements the constraint generator (spec §4.7): it walks
// an AST, producing a (type, constraint set) pair per expression, handling
// Hindley-Milner generalisation at let/let-rec, instantiation at variable
// use, and scoping/shadowing via internal/types.Env.
package infer

import (
	"fmt"

	"github.com/bendu-lang/mini-bendu/internal/ast"
	"github.com/bendu-lang/mini-bendu/internal/constraint"
	"github.com/bendu-lang/mini-bendu/internal/types"
)

// Generator carries the state a single typeCheck call needs beyond what
// fits in an Env: the best-effort error-recovery slot used at record-field
// and tuple-element boundaries (spec §4.7 "Error-recovery policy").
type Generator struct {
	// firstErr remembers the earliest (in traversal order) failure
	// swallowed by a recovery boundary, so the façade can still report at
	// least one structured failure for the whole call.
	firstErr error
}

// New creates a Generator with a clean recovery slot.
func New() *Generator {
	return &Generator{}
}

// FirstRecoveredError returns the earliest failure recorded by a recovery
// boundary since this Generator was created, or nil if none occurred. The
// slot is never cleared, so it spans every Generate call on the Generator.
func (g *Generator) FirstRecoveredError() error {
	return g.firstErr
}

func (g *Generator) recordRecovered(err error) {
	if g.firstErr == nil {
		g.firstErr = err
	}
}

// Generate produces (type, constraints) for expr under env, or a non-nil
// error if expr (or a non-recoverable sub-expression) fails outright
// (spec §4.7).
func (g *Generator) Generate(expr ast.Expr, env *types.Env) (types.Type, constraint.Set, error) {
	switch e := expr.(type) {
	case *ast.LiteralIntExpr:
		alpha := types.NewTypeVar()
		c := constraint.NewEquality(alpha, types.Int, e.Loc, constraint.OriginInference)
		return alpha, constraint.NewSet(c), nil

	case *ast.LiteralBoolExpr:
		alpha := types.NewTypeVar()
		c := constraint.NewEquality(alpha, types.Bool, e.Loc, constraint.OriginInference)
		return alpha, constraint.NewSet(c), nil

	case *ast.LiteralStringExpr:
		alpha := types.NewTypeVar()
		c := constraint.NewEquality(alpha, types.NewLiteralString(e.Value), e.Loc, constraint.OriginInference)
		return alpha, constraint.NewSet(c), nil

	case *ast.VarExpr:
		return g.generateVar(e, env)

	case *ast.IfExpr:
		return g.generateIf(e, env)

	case *ast.LambdaExpr:
		return g.generateLambda(e, env)

	case *ast.ApplicationExpr:
		return g.generateApplication(e, env)

	case *ast.LetExpr:
		return g.generateLet(e, env)

	case *ast.TupleExpr:
		return g.generateTuple(e, env)

	case *ast.RecordExpr:
		return g.generateRecord(e, env)

	case *ast.ProjectionExpr:
		return g.generateProjection(e, env)

	case *ast.MatchExpr:
		return g.generateMatch(e, env)

	case *ast.BinaryOpExpr:
		return g.generateBinaryOp(e, env)

	default:
		return nil, constraint.Set{}, &types.CompilerBug{Message: fmt.Sprintf("generator: unhandled expression %T", expr)}
	}
}

func (g *Generator) generateVar(e *ast.VarExpr, env *types.Env) (types.Type, constraint.Set, error) {
	scheme, ok := env.Lookup(e.Name)
	if !ok {
		return nil, constraint.Set{}, &types.UndefinedVariable{Name: e.Name}
	}
	instantiated, _ := scheme.Instantiate()
	alpha := types.NewTypeVar()
	c := constraint.NewEquality(alpha, instantiated, e.Loc, constraint.OriginInference)
	return alpha, constraint.NewSet(c), nil
}

func (g *Generator) generateIf(e *ast.IfExpr, env *types.Env) (types.Type, constraint.Set, error) {
	condType, condC, err := g.Generate(e.Cond, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	thenType, thenC, err := g.Generate(e.Then, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	elseType, elseC, err := g.Generate(e.Else, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}

	all := condC.Union(thenC).Union(elseC)
	all = all.Add(constraint.NewEquality(condType, types.Bool, e.Cond.Position(), constraint.OriginInference))
	all = all.Add(constraint.NewEquality(thenType, elseType, e.Else.Position(), constraint.OriginInference))
	return thenType, all, nil
}

func (g *Generator) generateLambda(e *ast.LambdaExpr, env *types.Env) (types.Type, constraint.Set, error) {
	if len(e.Params) == 0 {
		return nil, constraint.Set{}, &types.CompilerBug{Message: "lambda with no parameters"}
	}
	return g.curryLambda(e.Params, e.Body, env)
}

// curryLambda builds a right-nested chain of Function types, one per
// parameter, matching spec §4.7's "multi-argument lambdas curry".
func (g *Generator) curryLambda(params []ast.LambdaParam, body ast.Expr, env *types.Env) (types.Type, constraint.Set, error) {
	param := params[0]
	scope := env.OpenScope()

	var beta types.Type
	if param.Annotation != nil {
		annotated, err := lowerType(param.Annotation)
		if err != nil {
			return nil, constraint.Set{}, err
		}
		beta = annotated
	} else {
		beta = types.NewTypeVar()
	}
	scope = scope.Extend(param.Name, beta)

	var bodyType types.Type
	var bodyC constraint.Set
	var err error
	if len(params) == 1 {
		bodyType, bodyC, err = g.Generate(body, scope)
	} else {
		bodyType, bodyC, err = g.curryLambda(params[1:], body, scope)
	}
	if err != nil {
		return nil, constraint.Set{}, err
	}

	return &types.Function{Domain: beta, Codomain: bodyType}, bodyC, nil
}

func (g *Generator) generateApplication(e *ast.ApplicationExpr, env *types.Env) (types.Type, constraint.Set, error) {
	funcType, funcC, err := g.Generate(e.Func, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	argType, argC, err := g.Generate(e.Arg, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	gamma := types.NewTypeVar()
	all := funcC.Union(argC)
	all = all.Add(constraint.NewEquality(funcType, &types.Function{Domain: argType, Codomain: gamma}, e.Loc, constraint.OriginInference))
	return gamma, all, nil
}

// generateLet implements spec §4.7's let / let-rec rule: the bound
// expression's constraints are solved immediately so generalisation can
// be computed against the solved environment, per spec §5's ordering
// guarantee ("the bound expression is fully solved before the body is
// processed").
func (g *Generator) generateLet(e *ast.LetExpr, env *types.Env) (types.Type, constraint.Set, error) {
	value := desugarParams(e.Params, e.Value)

	if !e.Recursive {
		valueType, valueC, err := g.Generate(value, env)
		if err != nil {
			return nil, constraint.Set{}, err
		}
		sub, err := solveNow(valueC)
		if err != nil {
			return nil, constraint.Set{}, err
		}
		generalized := types.Generalize(types.Apply(sub, valueType), env.FreeVariablesUnder(sub))
		bodyEnv := env.OpenScope().Bind(e.Name, generalized)
		bodyType, bodyC, err := g.Generate(e.Body, bodyEnv)
		if err != nil {
			return nil, constraint.Set{}, err
		}
		// valueC rides along with bodyC rather than being dropped: solving it
		// here only served to compute the generalized scheme. Any equality it
		// placed on a type variable still free in an enclosing scope (e.g. an
		// outer lambda parameter unified against the bound expression) has to
		// reach the final solve, or that enclosing variable goes unconstrained.
		return bodyType, bodyC.Union(valueC), nil
	}

	// let rec: bind the name to a monomorphic fresh variable before
	// generating the bound expression, so recursive occurrences resolve.
	beta := types.NewTypeVar()
	recScope := env.OpenScope().Extend(e.Name, beta)
	valueType, valueC, err := g.Generate(value, recScope)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	valueC = valueC.Add(constraint.NewEquality(beta, valueType, e.Loc, constraint.OriginInference))
	sub, err := solveNow(valueC)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	generalized := types.Generalize(types.Apply(sub, beta), env.FreeVariablesUnder(sub))
	bodyEnv := env.OpenScope().Bind(e.Name, generalized)
	bodyType, bodyC, err := g.Generate(e.Body, bodyEnv)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	// Same reasoning as the non-recursive branch: valueC (which already
	// carries beta's equality to valueType) must survive to the final solve.
	return bodyType, bodyC.Union(valueC), nil
}

// desugarParams turns `let f p1 p2 = value` sugar into
// `let f = \p1. \p2. value`, per spec §6's LetExpr carrying an optional
// parameter list.
func desugarParams(params []ast.LambdaParam, value ast.Expr) ast.Expr {
	if len(params) == 0 {
		return value
	}
	return &ast.LambdaExpr{Params: params, Body: value, Loc: value.Position()}
}

// solveNow solves a constraint set eagerly, used at let-generalisation
// points (spec §4.7, §9). Any solver failure surfaces as the let's own
// failure.
func solveNow(c constraint.Set) (types.Substitution, error) {
	result := constraint.NewSolver().Solve(c)
	if result.Err != nil {
		return nil, result.Err
	}
	return result.Substitution, nil
}

func (g *Generator) generateTuple(e *ast.TupleExpr, env *types.Env) (types.Type, constraint.Set, error) {
	elems := make([]types.Type, len(e.Elements))
	all := constraint.NewSet()
	for i, elemExpr := range e.Elements {
		t, c, err := g.Generate(elemExpr, env)
		if err != nil {
			// Sequence boundary: recover with a fresh placeholder,
			// remember the failure, keep generating the rest.
			g.recordRecovered(err)
			t = types.NewTypeVar()
			c = constraint.Set{}
		}
		elems[i] = t
		all = all.Union(c)
	}
	return types.NewTuple(elems), all, nil
}

func (g *Generator) generateRecord(e *ast.RecordExpr, env *types.Env) (types.Type, constraint.Set, error) {
	fields := make(map[string]types.Type, len(e.Fields))
	all := constraint.NewSet()
	for _, f := range e.Fields {
		t, c, err := g.Generate(f.Value, env)
		if err != nil {
			// Record-field boundary: same recovery policy as tuples.
			g.recordRecovered(err)
			t = types.NewTypeVar()
			c = constraint.Set{}
		}
		fields[f.Name] = t
		all = all.Union(c)
	}
	return &types.Record{Fields: fields, Row: types.ClosedRow{}}, all, nil
}

func (g *Generator) generateProjection(e *ast.ProjectionExpr, env *types.Env) (types.Type, constraint.Set, error) {
	recordType, recordC, err := g.Generate(e.Record, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	alpha := types.NewTypeVar()
	rho := types.NewTypeVar()
	wanted := &types.Record{Fields: map[string]types.Type{e.Field: alpha}, Row: types.OpenRow{Var: rho}}
	all := recordC.Add(constraint.NewEquality(recordType, wanted, e.Loc, constraint.OriginInference))
	return alpha, all, nil
}

func (g *Generator) generateBinaryOp(e *ast.BinaryOpExpr, env *types.Env) (types.Type, constraint.Set, error) {
	leftType, leftC, err := g.Generate(e.Left, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	rightType, rightC, err := g.Generate(e.Right, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	all := leftC.Union(rightC)

	switch e.Op {
	case "+", "-", "*", "/", "%":
		all = all.Add(constraint.NewEquality(leftType, types.Int, e.Left.Position(), constraint.OriginInference))
		all = all.Add(constraint.NewEquality(rightType, types.Int, e.Right.Position(), constraint.OriginInference))
		return types.Int, all, nil

	case "==", "!=", "<", "<=", ">", ">=":
		all = all.Add(constraint.NewEquality(leftType, rightType, e.Loc, constraint.OriginInference))
		return types.Bool, all, nil

	case "&&", "||":
		all = all.Add(constraint.NewEquality(leftType, types.Bool, e.Left.Position(), constraint.OriginInference))
		all = all.Add(constraint.NewEquality(rightType, types.Bool, e.Right.Position(), constraint.OriginInference))
		return types.Bool, all, nil

	default:
		return nil, constraint.Set{}, &types.CompilerBug{Message: fmt.Sprintf("generator: unknown operator %q", e.Op)}
	}
}

// generateMatch implements spec §4.7's match rule: the scrutinee's type is
// constrained against every case's pattern, each case's body is generated
// in a scope extended with that pattern's bindings, and every case's body
// type is unified against a single shared result variable.
func (g *Generator) generateMatch(e *ast.MatchExpr, env *types.Env) (types.Type, constraint.Set, error) {
	scrutineeType, scrutineeC, err := g.Generate(e.Scrutinee, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}

	result := types.NewTypeVar()
	all := scrutineeC
	for _, c := range e.Cases {
		caseEnv, patternC, err := g.generatePattern(c.Pattern, scrutineeType, env.OpenScope())
		if err != nil {
			return nil, constraint.Set{}, err
		}
		all = all.Union(patternC)

		bodyType, bodyC, err := g.Generate(c.Body, caseEnv)
		if err != nil {
			return nil, constraint.Set{}, err
		}
		all = all.Union(bodyC)
		all = all.Add(constraint.NewEquality(result, bodyType, c.Loc, constraint.OriginInference))
	}

	return result, all, nil
}

// generatePattern binds pattern's variables into env and constrains
// scrutineeType to match the pattern's shape (spec §4.7). It returns the
// extended environment and any constraints contributed by the pattern.
func (g *Generator) generatePattern(pattern ast.Pattern, scrutineeType types.Type, env *types.Env) (*types.Env, constraint.Set, error) {
	switch p := pattern.(type) {
	case *ast.LiteralIntPattern:
		c := constraint.NewEquality(scrutineeType, types.Int, p.Loc, constraint.OriginInference)
		return env, constraint.NewSet(c), nil

	case *ast.LiteralBoolPattern:
		c := constraint.NewEquality(scrutineeType, types.Bool, p.Loc, constraint.OriginInference)
		return env, constraint.NewSet(c), nil

	case *ast.LiteralStringPattern:
		c := constraint.NewEquality(scrutineeType, types.NewLiteralString(p.Value), p.Loc, constraint.OriginInference)
		return env, constraint.NewSet(c), nil

	case *ast.VarPattern:
		return env.Extend(p.Name, scrutineeType), constraint.NewSet(), nil

	case *ast.TuplePattern:
		elemVars := make([]types.Type, len(p.Elements))
		for i := range p.Elements {
			elemVars[i] = types.NewTypeVar()
		}
		all := constraint.NewSet(constraint.NewEquality(scrutineeType, types.NewTuple(elemVars), p.Loc, constraint.OriginInference))
		for i, sub := range p.Elements {
			var err error
			env, all, err = g.bindSubPattern(sub, elemVars[i], env, all)
			if err != nil {
				return nil, constraint.Set{}, err
			}
		}
		return env, all, nil

	case *ast.RecordPattern:
		fieldVars := make(map[string]types.Type, len(p.Fields))
		for _, f := range p.Fields {
			fieldVars[f.Name] = types.NewTypeVar()
		}
		rho := types.NewTypeVar()
		wanted := &types.Record{Fields: fieldVars, Row: types.OpenRow{Var: rho}}
		all := constraint.NewSet(constraint.NewEquality(scrutineeType, wanted, p.Loc, constraint.OriginInference))
		for _, f := range p.Fields {
			var err error
			env, all, err = g.bindSubPattern(f.Pattern, fieldVars[f.Name], env, all)
			if err != nil {
				return nil, constraint.Set{}, err
			}
		}
		return env, all, nil

	default:
		return nil, constraint.Set{}, &types.CompilerBug{Message: fmt.Sprintf("generator: unhandled pattern %T", pattern)}
	}
}

func (g *Generator) bindSubPattern(p ast.Pattern, t types.Type, env *types.Env, acc constraint.Set) (*types.Env, constraint.Set, error) {
	newEnv, c, err := g.generatePattern(p, t, env)
	if err != nil {
		return nil, constraint.Set{}, err
	}
	return newEnv, acc.Union(c), nil
}

// lowerType maps a concrete-syntax type annotation (spec §6's BaseTypeExpr)
// into internal/types.Type. A bare lower-case name not matching a known
// primitive is treated as a type-variable reference (the same name always
// maps to the same fresh variable within one annotation); any other bare
// name with no arguments is an alias reference.
func lowerType(expr ast.BaseTypeExpr) (types.Type, error) {
	return lowerTypeIn(expr, map[string]*types.TypeVariable{})
}

func lowerTypeIn(expr ast.BaseTypeExpr, vars map[string]*types.TypeVariable) (types.Type, error) {
	switch t := expr.(type) {
	case *ast.NamedTypeExpr:
		if len(t.Args) == 0 {
			switch t.Name {
			case "Int":
				return types.Int, nil
			case "String":
				return types.String, nil
			case "Bool":
				return types.Bool, nil
			case "Unit":
				return types.Unit, nil
			case "Error":
				return types.Error, nil
			}
			if isTypeVarName(t.Name) {
				if v, ok := vars[t.Name]; ok {
					return v, nil
				}
				v := types.NewTypeVar()
				vars[t.Name] = v
				return v, nil
			}
			return &types.Alias{Name: t.Name}, nil
		}
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			lowered, err := lowerTypeIn(a, vars)
			if err != nil {
				return nil, err
			}
			args[i] = lowered
		}
		return &types.Alias{Name: t.Name, Args: args}, nil

	case *ast.FuncTypeExpr:
		domain, err := lowerTypeIn(t.Domain, vars)
		if err != nil {
			return nil, err
		}
		codomain, err := lowerTypeIn(t.Codomain, vars)
		if err != nil {
			return nil, err
		}
		return &types.Function{Domain: domain, Codomain: codomain}, nil

	default:
		return nil, &types.CompilerBug{Message: fmt.Sprintf("generator: unhandled type annotation %T", expr)}
	}
}

// isTypeVarName treats a lower-case, argument-free identifier as a type
// variable reference in an annotation (e.g. `a` in `\x: a. x`), matching
// the lower-case type-variable convention the teacher's surface syntax
// uses.
func isTypeVarName(name string) bool {
	return len(name) > 0 && name[0] >= 'a' && name[0] <= 'z'
}
