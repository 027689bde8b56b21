package types

import (
	"fmt"
	"strings"
)

// canonicalBase offsets synthetic comparison variables far past anything
// the process-wide fresh-id counter will reach, so IsAlphaEquivalent's
// internal renaming can never collide with a real type variable.
const canonicalBase = uint64(1) << 62

// TypeScheme is a polymorphic type ∀V.τ (spec §3, §4.2). Vars holds the
// quantified variable ids in a fixed, deterministic order.
type TypeScheme struct {
	Vars []uint64
	Type Type
}

// Monomorphic wraps a type with no quantifiers.
func Monomorphic(t Type) *TypeScheme {
	return &TypeScheme{Type: t}
}

// IsMonomorphic reports whether the scheme quantifies over no variables.
func (s *TypeScheme) IsMonomorphic() bool { return len(s.Vars) == 0 }

func (s *TypeScheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	names := make([]string, len(s.Vars))
	for i, id := range s.Vars {
		names[i] = (&TypeVariable{ID: id}).String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), s.Type.String())
}

// FreeVariables of a scheme excludes its own quantifiers (spec §3 invariant
// freeVars(∀V.τ) = freeVars(τ) \ V).
func (s *TypeScheme) FreeVariables() VarSet {
	bound := newVarSet()
	for _, id := range s.Vars {
		bound[id] = &TypeVariable{ID: id}
	}
	return s.Type.FreeVariables().Without(bound)
}

// Generalize promotes every free variable of t not free in the enclosing
// environment into a quantifier (spec §4.2). Called at let/let-rec binding
// sites after the bound expression's constraints are solved.
func Generalize(t Type, freeInEnv VarSet) *TypeScheme {
	quantified := t.FreeVariables().Without(freeInEnv)
	sorted := quantified.Sorted()
	vars := make([]uint64, len(sorted))
	for i, v := range sorted {
		vars[i] = v.ID
	}
	return &TypeScheme{Vars: vars, Type: t}
}

// Instantiate replaces every quantified variable with a fresh type
// variable (spec §4.2). Two calls on the same scheme are never equal
// (spec §8 freshness): each call draws new ids from the process-wide
// counter.
func (s *TypeScheme) Instantiate() (Type, Substitution) {
	sub := make(Substitution, len(s.Vars))
	for _, id := range s.Vars {
		sub[id] = NewTypeVar()
	}
	return Apply(sub, s.Type), sub
}

// IsAlphaEquivalent implements spec §3's α-equivalence: same quantifier
// count and a bijection between the two var sets making the bodies equal.
// Both schemes are independently canonicalised (each scheme's own Vars,
// in their fixed order, renamed to a shared sequence of synthetic ids) so
// that two schemes differing only in the concrete identity of their bound
// variables compare equal.
func (s *TypeScheme) IsAlphaEquivalent(other *TypeScheme) bool {
	if len(s.Vars) != len(other.Vars) {
		return false
	}
	return canonicalize(s).StructurallyEquivalent(canonicalize(other))
}

func canonicalize(s *TypeScheme) Type {
	sub := make(Substitution, len(s.Vars))
	for i, id := range s.Vars {
		sub[id] = &TypeVariable{ID: canonicalBase + uint64(i)}
	}
	return Apply(sub, s.Type)
}
