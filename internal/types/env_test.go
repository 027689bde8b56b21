package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLookupScansInnermostFirst(t *testing.T) {
	env := NewEnv().Extend("x", Int)
	inner := env.OpenScope().Extend("x", Bool)

	scheme, ok := inner.Lookup("x")
	require.True(t, ok)
	assert.True(t, scheme.Type.StructurallyEquivalent(Bool), "inner frame shadows outer")

	outerScheme, ok := env.Lookup("x")
	require.True(t, ok)
	assert.True(t, outerScheme.Type.StructurallyEquivalent(Int), "outer frame is untouched by the inner binding")
}

func TestEnvLookupMissingName(t *testing.T) {
	_, ok := NewEnv().Lookup("nope")
	assert.False(t, ok)
}

func TestEnvFreeVariablesUnderAppliesSubstitution(t *testing.T) {
	v := NewTypeVar()
	env := NewEnv().Extend("x", v)

	sub := Substitution{v.ID: Int}
	free := env.FreeVariablesUnder(sub)
	assert.Empty(t, free, "once substituted to a ground type, x contributes no free variables")
}

func TestEnvNamesListsEveryReachableBinding(t *testing.T) {
	env := NewEnv().Extend("a", Int).Extend("b", Bool)
	inner := env.OpenScope().Extend("c", String)

	names := inner.Names()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, names)
}
