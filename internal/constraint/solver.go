package constraint

import (
	"sort"

	"github.com/bendu-lang/mini-bendu/internal/types"
)

// InstanceTable is the closed, per-class-name membership allow-list used
// to discharge Instance constraints against ground types (spec §4.5).
// Empty by default: no class has any member until a caller registers one.
type InstanceTable map[string]func(types.Type) bool

// Solver drains a Set by priority, consulting Unify and the Instance
// allow-list, and accumulates a single substitution (spec §4.5).
type Solver struct {
	Instances InstanceTable
}

// NewSolver returns a solver with an empty Instance allow-list.
func NewSolver() *Solver {
	return &Solver{Instances: InstanceTable{}}
}

// Result is what Solve returns: either a substitution, or a structured,
// possibly-located error whose Error() method gives the legacy string form
// (spec §4.5).
type Result struct {
	Substitution types.Substitution
	Err          error
}

// Solve implements the algorithm of spec §4.5: pop the highest-priority
// constraint, apply the accumulated substitution, dispatch on kind, and
// repeat until the queue is empty or a constraint fails.
func (s *Solver) Solve(set Set) Result {
	queue := stableByPriority(set.All())
	sub := types.Substitution{}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		c = c.ApplySubstitution(sub)

		switch typed := c.(type) {
		case *Equality:
			next, err := types.Unify(typed.T1, typed.T2)
			if err != nil {
				return Result{Err: types.WrapLocated(err, typed.Loc)}
			}
			sub = types.Compose(next, sub)
			queue = reapply(queue, next)

		case *Subtyping:
			emitted, err := s.reduceSubtyping(typed)
			if err != nil {
				return Result{Err: types.WrapLocated(err, typed.Loc)}
			}
			queue = append(queue, emitted...)
			queue = stableByPriority(queue)

		case *Instance:
			check, known := s.Instances[typed.ClassName]
			ground := len(typed.Type.FreeVariables()) == 0
			if known && ground && !check(typed.Type) {
				return Result{Err: &types.InstanceNotSatisfied{ClassName: typed.ClassName, Type: typed.Type}}
			}
			// Not ground, or no allow-list registered for this class: the
			// constraint is dropped. It is not re-enqueued, and Result
			// does not record it.

		default:
			return Result{Err: &types.CompilerBug{Message: "solver: unknown constraint kind"}}
		}
	}

	return Result{Substitution: sub}
}

// reduceSubtyping implements spec §4.1/§4.5's Subtyping dispatch: if the
// relation already holds structurally, no new constraints are needed;
// otherwise the stronger equality constraints required are emitted (e.g.
// record width requires equalities on shared fields). Per SPEC_FULL.md's
// Open Question resolution, mini-bendu's Subtyping constraints always
// reduce to Equality and are never themselves retried.
func (s *Solver) reduceSubtyping(c *Subtyping) ([]Constraint, error) {
	if types.IsSubtypeOf(c.Sub, c.Super) {
		return nil, nil
	}

	subRec, subOK := c.Sub.(*types.Record)
	superRec, superOK := c.Super.(*types.Record)
	if subOK && superOK {
		var emitted []Constraint
		for name, superType := range superRec.Fields {
			subType, ok := subRec.Fields[name]
			if !ok {
				return nil, &types.RowMismatch{Missing: []string{name}}
			}
			emitted = append(emitted, NewEquality(subType, superType, c.Loc, c.Orig))
		}
		return emitted, nil
	}

	return []Constraint{NewEquality(c.Sub, c.Super, c.Loc, c.Orig)}, nil
}

// stableByPriority sorts by Priority(), preserving relative order within
// a priority tier (a stable sort implements the "dequeue highest priority
// first, FIFO within a tier" queue discipline spec §4.4 implies).
func stableByPriority(items []Constraint) []Constraint {
	out := append([]Constraint(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority() < out[j].Priority() })
	return out
}

func reapply(queue []Constraint, sub types.Substitution) []Constraint {
	out := make([]Constraint, len(queue))
	for i, c := range queue {
		out[i] = c.ApplySubstitution(sub)
	}
	return out
}
