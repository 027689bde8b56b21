// Package checker implements the type-checker façade (spec §4.9): it wires
// the constraint generator (internal/infer) and solver (internal/constraint)
// together behind the small set of operations an external caller (a parser/
// REPL/build-tool collaborator) actually needs.
package checker

import (
	"errors"
	"sort"

	"github.com/bendu-lang/mini-bendu/internal/ast"
	"github.com/bendu-lang/mini-bendu/internal/constraint"
	"github.com/bendu-lang/mini-bendu/internal/infer"
	"github.com/bendu-lang/mini-bendu/internal/types"
)

// Options configures a TypeChecker beyond its starting environment (spec
// §4.5's Instance allow-list is the only such knob presently).
type Options struct {
	// Instances is the closed, per-class-name membership allow-list used
	// to discharge Instance constraints. A nil map behaves like an empty
	// one: no class has any member.
	Instances constraint.InstanceTable
}

// TypeChecker runs the Generating -> Solving -> (Success | Failure) state
// machine of spec §4.9 against a fixed starting environment.
type TypeChecker struct {
	env     *types.Env
	options Options
}

// New returns a TypeChecker over an empty environment.
func New() *TypeChecker {
	return NewWithEnv(types.NewEnv())
}

// NewWithEnv returns a TypeChecker seeded with env (e.g. a prelude of
// built-in bindings).
func NewWithEnv(env *types.Env) *TypeChecker {
	return NewWithOptions(env, Options{})
}

// NewWithOptions is the fully-configured constructor.
func NewWithOptions(env *types.Env, options Options) *TypeChecker {
	if options.Instances == nil {
		options.Instances = constraint.InstanceTable{}
	}
	return &TypeChecker{env: env, options: options}
}

// Result is the outcome of type-checking one expression: Success is
// Err == nil, in which case Type and Substitution are populated; Failure
// is Err != nil, in which case Type and Substitution are the zero value.
type Result struct {
	Type         types.Type
	Substitution types.Substitution
	Err          error
}

// Succeeded reports whether this Result is a Success.
func (r Result) Succeeded() bool { return r.Err == nil }

// TypeCheck runs the full Generating -> Solving pipeline for a single
// expression against the checker's environment (spec §4.9).
func (tc *TypeChecker) TypeCheck(expr ast.Expr) Result {
	gen := infer.New()
	t, cs, err := gen.Generate(expr, tc.env)
	if err != nil {
		return Result{Err: err}
	}

	solver := &constraint.Solver{Instances: tc.options.Instances}
	solved := solver.Solve(cs)
	if solved.Err != nil {
		return Result{Err: solved.Err}
	}

	// A record-field/tuple-element recovery boundary may have swallowed a
	// failure deeper in the tree; surface it now rather than reporting a
	// spurious Success (spec §4.7's recovery policy still owes the caller
	// at least one structured failure).
	if recovered := gen.FirstRecoveredError(); recovered != nil {
		return Result{Err: recovered}
	}

	return Result{
		Type:         types.Apply(solved.Substitution, t),
		Substitution: solved.Substitution,
	}
}

// IncrementalResult is the outcome of TypeCheckIncrementally: one Result
// per input expression, plus a cheap aggregate flag.
type IncrementalResult struct {
	Results   []Result
	HasErrors bool
}

// Errors returns every non-nil error across Results, in input order.
func (r IncrementalResult) Errors() []error {
	var out []error
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res.Err)
		}
	}
	return out
}

// TypeCheckIncrementally type-checks each expression independently against
// the checker's starting environment (spec §4.9): they share the same
// process-wide fresh-variable source but do not see each other's bindings,
// so one element's failure never aborts the rest.
func (tc *TypeChecker) TypeCheckIncrementally(exprs []ast.Expr) IncrementalResult {
	results := make([]Result, len(exprs))
	hasErrors := false
	for i, expr := range exprs {
		res := tc.TypeCheck(expr)
		results[i] = res
		if res.Err != nil {
			hasErrors = true
		}
	}
	return IncrementalResult{Results: results, HasErrors: hasErrors}
}

// ProgramResult is the outcome of TypeCheckProgram: a Result plus a
// best-effort list of suggestions (spec §4.9's "a list of suggestions
// (best-effort hints, may be empty)").
type ProgramResult struct {
	Result
	Suggestions []string
}

// TypeCheckProgram type-checks a whole program (conventionally, a chain of
// top-level LetExprs whose bodies feed into the next declaration) and
// attaches suggestions for the failure, when one is recognised.
func (tc *TypeChecker) TypeCheckProgram(program ast.Expr) ProgramResult {
	result := tc.TypeCheck(program)
	return ProgramResult{
		Result:      result,
		Suggestions: tc.suggest(result.Err),
	}
}

// suggest implements SPEC_FULL.md's supplemented "Suggestions" feature: an
// undefined-variable failure whose name closely matches (by edit distance)
// a name already bound in the environment suggests that binding.
func (tc *TypeChecker) suggest(err error) []string {
	if err == nil {
		return nil
	}
	var undefined *types.UndefinedVariable
	if !errors.As(err, &undefined) {
		return nil
	}

	type candidate struct {
		name     string
		distance int
	}
	var candidates []candidate
	for _, name := range tc.env.Names() {
		d := levenshtein(undefined.Name, name)
		if d > 0 && d <= 2 {
			candidates = append(candidates, candidate{name, d})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = "did you mean to declare or reference \"" + c.name + "\"?"
	}
	return out
}

// levenshtein is the standard edit-distance metric, used only for the
// cheap typo-suggestion heuristic above.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// TypeInfo is the outcome of GetTypeInformation: either Available (with a
// resolved type) or not (spec §4.9).
type TypeInfo struct {
	Available  bool
	Type       types.Type
	PrettyType string
}

// GetTypeInformation type-checks expr and reports its resolved type, for a
// caller (e.g. an editor hover feature) that has already located the node
// of interest at loc. loc is carried through only as context for the
// caller's own diagnostics; resolving a location to a node is that
// caller's job, not this façade's (spec §4.9 names the operation as
// position -> type information, not position -> node).
func (tc *TypeChecker) GetTypeInformation(expr ast.Expr, loc ast.Location) TypeInfo {
	_ = loc
	result := tc.TypeCheck(expr)
	if !result.Succeeded() {
		return TypeInfo{Available: false}
	}
	return TypeInfo{Available: true, Type: result.Type, PrettyType: result.Type.String()}
}
