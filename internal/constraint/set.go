package constraint

import "github.com/bendu-lang/mini-bendu/internal/types"

// Set is a collection of constraints (spec §4.4). It is a value-ish type:
// every mutator returns a new Set rather than aliasing the receiver's
// backing array, so callers can freely share a Set across branches of the
// generator.
type Set struct {
	items []Constraint
}

// NewSet builds a Set from the given constraints.
func NewSet(items ...Constraint) Set {
	return Set{items: append([]Constraint(nil), items...)}
}

// Add returns a new Set with c appended.
func (s Set) Add(c Constraint) Set {
	out := make([]Constraint, len(s.items), len(s.items)+1)
	copy(out, s.items)
	out = append(out, c)
	return Set{items: out}
}

// Union returns a new Set containing every constraint from both sets.
func (s Set) Union(other Set) Set {
	out := make([]Constraint, 0, len(s.items)+len(other.items))
	out = append(out, s.items...)
	out = append(out, other.items...)
	return Set{items: out}
}

// All returns every constraint in the set, in insertion order.
func (s Set) All() []Constraint { return s.items }

// Size returns the number of constraints in the set.
func (s Set) Size() int { return len(s.items) }

// ApplySubstitution maps s over every constraint in the set.
func (s Set) ApplySubstitution(sub types.Substitution) Set {
	out := make([]Constraint, len(s.items))
	for i, c := range s.items {
		out[i] = c.ApplySubstitution(sub)
	}
	return Set{items: out}
}

// FindInconsistency is a best-effort syntactic contradiction scan (spec
// §4.4): it looks for two Equality constraints that pin the same type
// variable to two structurally-distinct ground types (e.g. `v ~ Int` and
// `v ~ String` both present). It does not attempt unification itself —
// that's the solver's job — only a cheap, local rule-out.
func (s Set) FindInconsistency() (Constraint, Constraint, bool) {
	bindings := make(map[uint64][]struct {
		t Constraint
		v types.Type
	})
	for _, c := range s.items {
		eq, ok := c.(*Equality)
		if !ok {
			continue
		}
		if v, ok := eq.T1.(*types.TypeVariable); ok {
			if !hasFreeVar(eq.T2, v.ID) {
				bindings[v.ID] = append(bindings[v.ID], struct {
					t Constraint
					v types.Type
				}{c, eq.T2})
			}
		}
		if v, ok := eq.T2.(*types.TypeVariable); ok {
			if !hasFreeVar(eq.T1, v.ID) {
				bindings[v.ID] = append(bindings[v.ID], struct {
					t Constraint
					v types.Type
				}{c, eq.T1})
			}
		}
	}

	for _, entries := range bindings {
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				a, b := entries[i], entries[j]
				if isGround(a.v) && isGround(b.v) && !a.v.StructurallyEquivalent(b.v) {
					return a.t, b.t, true
				}
			}
		}
	}
	return nil, nil, false
}

func hasFreeVar(t types.Type, id uint64) bool {
	return t.FreeVariables().Has(id)
}

func isGround(t types.Type) bool {
	return len(t.FreeVariables()) == 0
}
