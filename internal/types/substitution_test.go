package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeAppliesS2ThenFallsBackToS1(t *testing.T) {
	v1 := NewTypeVar()
	v2 := NewTypeVar()

	s1 := Substitution{v1.ID: v2}
	s2 := Substitution{v2.ID: Int}

	composed := Compose(s2, s1)
	assert.True(t, Apply(composed, v1).StructurallyEquivalent(Int))
	assert.True(t, Apply(composed, v2).StructurallyEquivalent(Int))
}

func TestComposeKeepsS1BindingOnOverlap(t *testing.T) {
	v := NewTypeVar()
	s1 := Substitution{v.ID: Int}
	s2 := Substitution{v.ID: Bool}

	// (s2 ∘ s1)(v) = s2(s1(v)) = s2(Int) = Int.
	composed := Compose(s2, s1)
	assert.True(t, Apply(composed, v).StructurallyEquivalent(Int))
}

func TestIsIdempotentDetectsChaining(t *testing.T) {
	v1 := NewTypeVar()
	v2 := NewTypeVar()

	idempotent := Substitution{v1.ID: Int}
	assert.True(t, IsIdempotent(idempotent))

	chained := Substitution{v1.ID: v2, v2.ID: Int}
	assert.False(t, IsIdempotent(chained))
}

func TestApplyEmptySubstitutionIsNoOp(t *testing.T) {
	assert.Same(t, Int, Apply(Substitution{}, Int))
}
