package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bendu-lang/mini-bendu/internal/ast"
	"github.com/bendu-lang/mini-bendu/internal/types"
)

func TestPriorityOrdering(t *testing.T) {
	assert.Less(t, int(PriorityEquality), int(PrioritySubtyping))
	assert.Less(t, int(PrioritySubtyping), int(PriorityInstance))
}

func TestEqualitySimplifyDropsTrivialConstraint(t *testing.T) {
	c := NewEquality(types.Int, types.Int, ast.Location{}, OriginInference)
	assert.Empty(t, c.Simplify())
}

func TestEqualitySimplifyKeepsNontrivialConstraint(t *testing.T) {
	v := types.NewTypeVar()
	c := NewEquality(v, types.Int, ast.Location{}, OriginInference)
	assert.Len(t, c.Simplify(), 1)
}

func TestDependsOnIsSymmetricOverSharedVariable(t *testing.T) {
	v := types.NewTypeVar()
	a := NewEquality(v, types.Int, ast.Location{}, OriginInference)
	b := NewSubtyping(v, types.Bool, ast.Location{}, OriginSubtyping)
	c := NewInstance(types.Bool, "Show", OriginTypeClass)

	assert.True(t, a.DependsOn(b))
	assert.True(t, b.DependsOn(a))
	assert.False(t, a.DependsOn(c), "c shares no free variable with a")
}

func TestApplySubstitutionThreadsThroughEveryKind(t *testing.T) {
	v := types.NewTypeVar()
	sub := types.Substitution{v.ID: types.Int}

	eq := NewEquality(v, types.Bool, ast.Location{}, OriginInference).ApplySubstitution(sub)
	assert.True(t, eq.(*Equality).T1.StructurallyEquivalent(types.Int))

	sub2 := NewSubtyping(v, types.Bool, ast.Location{}, OriginSubtyping).ApplySubstitution(sub)
	assert.True(t, sub2.(*Subtyping).Sub.StructurallyEquivalent(types.Int))

	inst := NewInstance(v, "Show", OriginTypeClass).ApplySubstitution(sub)
	assert.True(t, inst.(*Instance).Type.StructurallyEquivalent(types.Int))
}

func TestInstanceLocationIsZero(t *testing.T) {
	c := NewInstance(types.Int, "Show", OriginTypeClass)
	assert.True(t, c.Location().IsZero())
}
