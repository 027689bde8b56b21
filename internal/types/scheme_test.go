package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneralizeQuantifiesOnlyVarsNotFreeInEnv(t *testing.T) {
	free := NewTypeVar()
	bound := NewTypeVar()

	fn := &Function{Domain: bound, Codomain: free}
	envFree := VarSet{free.ID: free}

	scheme := Generalize(fn, envFree)
	assert.Equal(t, []uint64{bound.ID}, scheme.Vars)
}

func TestInstantiateProducesFreshVarsEachCall(t *testing.T) {
	v := NewTypeVar()
	scheme := Generalize(v, newVarSet())

	t1, _ := scheme.Instantiate()
	t2, _ := scheme.Instantiate()

	assert.False(t, t1.StructurallyEquivalent(t2), "two instantiations of the same scheme must never be equal")
}

func TestIsAlphaEquivalentIgnoresConcreteVarIdentity(t *testing.T) {
	a := NewTypeVar()
	b := NewTypeVar()

	s1 := Generalize(&Function{Domain: a, Codomain: a}, newVarSet())
	s2 := Generalize(&Function{Domain: b, Codomain: b}, newVarSet())

	assert.True(t, s1.IsAlphaEquivalent(s2))
}

func TestIsAlphaEquivalentRejectsDifferentShape(t *testing.T) {
	a := NewTypeVar()
	b := NewTypeVar()

	s1 := Generalize(&Function{Domain: a, Codomain: a}, newVarSet())
	s2 := Generalize(&Function{Domain: b, Codomain: Int}, newVarSet())

	assert.False(t, s1.IsAlphaEquivalent(s2))
}

func TestMonomorphicHasNoQuantifiers(t *testing.T) {
	scheme := Monomorphic(Int)
	assert.True(t, scheme.IsMonomorphic())
	assert.Equal(t, "Int", scheme.String())
}
