// Package constraint implements the constraint model and solver (spec
// §4.4-§4.5): Equality / Subtyping / Instance constraints, a priority-
// ordered ConstraintSet, and a ConstraintSolver that drains a set into a
// substitution or a structured, located error.
package constraint

import (
	"fmt"

	"github.com/bendu-lang/mini-bendu/internal/ast"
	"github.com/bendu-lang/mini-bendu/internal/types"
)

// Origin attributes a constraint to the phase that produced it, for error
// reporting only (spec §3).
type Origin string

const (
	OriginUnification Origin = "Unification"
	OriginInference   Origin = "Inference"
	OriginSubtyping   Origin = "Subtyping"
	OriginTypeClass   Origin = "TypeClass"
)

// Priority orders constraints for the solver's dequeue order. Smaller
// ordinal dequeues first (spec §4.4: Equality < Subtyping < Instance).
type Priority int

const (
	PriorityEquality Priority = iota
	PrioritySubtyping
	PriorityInstance
)

// Constraint is one of Equality, Subtyping, or Instance (spec §3, §4.4).
type Constraint interface {
	fmt.Stringer
	Priority() Priority
	Location() ast.Location
	Origin() Origin
	InvolvesVariable(id uint64) bool
	ApplySubstitution(s types.Substitution) Constraint
	// Simplify returns 0 or 1 constraint: the empty slice when the two
	// sides are already syntactically identical, otherwise a slice
	// containing the constraint itself.
	Simplify() []Constraint
	FreeVariables() types.VarSet
	// DependsOn is symmetric: true iff the two constraints share a free
	// variable (spec §3).
	DependsOn(other Constraint) bool
}

func dependsOnVia(a, b Constraint) bool {
	for id := range a.FreeVariables() {
		if b.FreeVariables().Has(id) {
			return true
		}
	}
	return false
}

// Equality constrains two types to be equal; priority HIGH (spec §3).
type Equality struct {
	T1, T2 types.Type
	Loc    ast.Location
	Orig   Origin
}

func NewEquality(t1, t2 types.Type, loc ast.Location, origin Origin) *Equality {
	return &Equality{T1: t1, T2: t2, Loc: loc, Orig: origin}
}

func (c *Equality) String() string                { return fmt.Sprintf("%s ~ %s", c.T1, c.T2) }
func (c *Equality) Priority() Priority             { return PriorityEquality }
func (c *Equality) Location() ast.Location         { return c.Loc }
func (c *Equality) Origin() Origin                 { return c.Orig }
func (c *Equality) InvolvesVariable(id uint64) bool {
	return c.T1.FreeVariables().Has(id) || c.T2.FreeVariables().Has(id)
}
func (c *Equality) ApplySubstitution(s types.Substitution) Constraint {
	return &Equality{T1: types.Apply(s, c.T1), T2: types.Apply(s, c.T2), Loc: c.Loc, Orig: c.Orig}
}
func (c *Equality) Simplify() []Constraint {
	if c.T1.StructurallyEquivalent(c.T2) {
		return nil
	}
	return []Constraint{c}
}
func (c *Equality) FreeVariables() types.VarSet {
	out := make(types.VarSet)
	for id, v := range c.T1.FreeVariables() {
		out[id] = v
	}
	for id, v := range c.T2.FreeVariables() {
		out[id] = v
	}
	return out
}
func (c *Equality) DependsOn(other Constraint) bool { return dependsOnVia(c, other) }

// Subtyping constrains Sub to be a subtype of Super; priority MEDIUM
// (spec §3).
type Subtyping struct {
	Sub, Super types.Type
	Loc        ast.Location
	Orig       Origin
}

func NewSubtyping(sub, super types.Type, loc ast.Location, origin Origin) *Subtyping {
	return &Subtyping{Sub: sub, Super: super, Loc: loc, Orig: origin}
}

func (c *Subtyping) String() string                { return fmt.Sprintf("%s <: %s", c.Sub, c.Super) }
func (c *Subtyping) Priority() Priority             { return PrioritySubtyping }
func (c *Subtyping) Location() ast.Location         { return c.Loc }
func (c *Subtyping) Origin() Origin                 { return c.Orig }
func (c *Subtyping) InvolvesVariable(id uint64) bool {
	return c.Sub.FreeVariables().Has(id) || c.Super.FreeVariables().Has(id)
}
func (c *Subtyping) ApplySubstitution(s types.Substitution) Constraint {
	return &Subtyping{Sub: types.Apply(s, c.Sub), Super: types.Apply(s, c.Super), Loc: c.Loc, Orig: c.Orig}
}
func (c *Subtyping) Simplify() []Constraint {
	if c.Sub.StructurallyEquivalent(c.Super) {
		return nil
	}
	return []Constraint{c}
}
func (c *Subtyping) FreeVariables() types.VarSet {
	out := make(types.VarSet)
	for id, v := range c.Sub.FreeVariables() {
		out[id] = v
	}
	for id, v := range c.Super.FreeVariables() {
		out[id] = v
	}
	return out
}
func (c *Subtyping) DependsOn(other Constraint) bool { return dependsOnVia(c, other) }

// Instance constrains Type to have an instance of ClassName; priority LOW
// (spec §3). Resolution beyond a closed membership allow-list is a
// Non-goal (spec §1, §4.5).
type Instance struct {
	Type      types.Type
	ClassName string
	Orig      Origin
}

func NewInstance(t types.Type, className string, origin Origin) *Instance {
	return &Instance{Type: t, ClassName: className, Orig: origin}
}

func (c *Instance) String() string                { return fmt.Sprintf("%s[%s]", c.ClassName, c.Type) }
func (c *Instance) Priority() Priority             { return PriorityInstance }
func (c *Instance) Location() ast.Location         { return ast.Location{} }
func (c *Instance) Origin() Origin                 { return c.Orig }
func (c *Instance) InvolvesVariable(id uint64) bool { return c.Type.FreeVariables().Has(id) }
func (c *Instance) ApplySubstitution(s types.Substitution) Constraint {
	return &Instance{Type: types.Apply(s, c.Type), ClassName: c.ClassName, Orig: c.Orig}
}
func (c *Instance) Simplify() []Constraint { return []Constraint{c} }
func (c *Instance) FreeVariables() types.VarSet {
	return c.Type.FreeVariables()
}
func (c *Instance) DependsOn(other Constraint) bool { return dependsOnVia(c, other) }
