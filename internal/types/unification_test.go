package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyPrimitives(t *testing.T) {
	sub, err := Unify(Int, Int)
	require.NoError(t, err)
	assert.Empty(t, sub)

	_, err = Unify(Int, Bool)
	require.Error(t, err)
	var mismatch *TypeMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestUnifyVariableBindsAndSubstitutes(t *testing.T) {
	v := NewTypeVar()
	sub, err := Unify(v, Int)
	require.NoError(t, err)
	assert.True(t, Apply(sub, v).StructurallyEquivalent(Int))
}

func TestUnifyOccursCheck(t *testing.T) {
	v := NewTypeVar()
	fn := &Function{Domain: v, Codomain: Int}
	_, err := Unify(v, fn)
	require.Error(t, err)
	var occurs *OccursCheckFailure
	assert.ErrorAs(t, err, &occurs)
}

func TestUnifyFunctionThreadsSubstitution(t *testing.T) {
	a := NewTypeVar()
	b := NewTypeVar()
	f1 := &Function{Domain: a, Codomain: a}
	f2 := &Function{Domain: Int, Codomain: b}

	sub, err := Unify(f1, f2)
	require.NoError(t, err)
	assert.True(t, Apply(sub, a).StructurallyEquivalent(Int))
	assert.True(t, Apply(sub, b).StructurallyEquivalent(Int))
}

func TestUnifyTupleLengthMismatch(t *testing.T) {
	_, err := Unify(NewTuple([]Type{Int, Int}), NewTuple([]Type{Int}))
	require.Error(t, err)
}

func TestUnifyClosedRowsExactMatch(t *testing.T) {
	l := &Record{Fields: map[string]Type{"x": Int}, Row: ClosedRow{}}
	r := &Record{Fields: map[string]Type{"x": Int}, Row: ClosedRow{}}
	sub, err := Unify(l, r)
	require.NoError(t, err)
	assert.Empty(t, sub)
}

func TestUnifyClosedRowsExtraFieldFails(t *testing.T) {
	l := &Record{Fields: map[string]Type{"x": Int, "y": Bool}, Row: ClosedRow{}}
	r := &Record{Fields: map[string]Type{"x": Int}, Row: ClosedRow{}}
	_, err := Unify(l, r)
	require.Error(t, err)
	var rowErr *RowMismatch
	require.ErrorAs(t, err, &rowErr)
}

func TestUnifyClosedWithOpenBindsExtraFields(t *testing.T) {
	rho := NewTypeVar()
	closed := &Record{Fields: map[string]Type{"x": Int, "y": Bool}, Row: ClosedRow{}}
	open := &Record{Fields: map[string]Type{"x": Int}, Row: OpenRow{Var: rho}}

	sub, err := Unify(closed, open)
	require.NoError(t, err)

	bound := Apply(sub, rho)
	rec, ok := bound.(*Record)
	require.True(t, ok)
	assert.True(t, rec.Fields["y"].StructurallyEquivalent(Bool))
}

func TestUnifyOpenWithOpenSharesFreshTail(t *testing.T) {
	rho1 := NewTypeVar()
	rho2 := NewTypeVar()
	left := &Record{Fields: map[string]Type{"x": Int}, Row: OpenRow{Var: rho1}}
	right := &Record{Fields: map[string]Type{"y": Bool}, Row: OpenRow{Var: rho2}}

	sub, err := Unify(left, right)
	require.NoError(t, err)

	leftBound := Apply(sub, rho1).(*Record)
	assert.True(t, leftBound.Fields["y"].StructurallyEquivalent(Bool))
	rightBound := Apply(sub, rho2).(*Record)
	assert.True(t, rightBound.Fields["x"].StructurallyEquivalent(Int))
}

func TestUnifyUnionsNominalOnly(t *testing.T) {
	u1 := NewUnion([]Type{Int, Bool})
	u2 := NewUnion([]Type{Bool, Int})
	sub, err := Unify(u1, u2)
	require.NoError(t, err, "permutation-equal unions unify trivially")
	assert.Empty(t, sub)

	u3 := NewUnion([]Type{Int, String})
	_, err = Unify(u1, u3)
	assert.Error(t, err)
}

func TestUnifyAliasNameAndArity(t *testing.T) {
	a1 := &Alias{Name: "Box", Args: []Type{Int}}
	a2 := &Alias{Name: "Box", Args: []Type{Int}}
	sub, err := Unify(a1, a2)
	require.NoError(t, err)
	assert.Empty(t, sub)

	a3 := &Alias{Name: "Box", Args: []Type{Bool}}
	_, err = Unify(a1, a3)
	assert.Error(t, err)

	a4 := &Alias{Name: "Other", Args: []Type{Int}}
	_, err = Unify(a1, a4)
	assert.Error(t, err)
}

func TestIsSubtypeOfLiteralStringWidensToString(t *testing.T) {
	assert.True(t, IsSubtypeOf(NewLiteralString("ok"), String))
	assert.False(t, IsSubtypeOf(String, NewLiteralString("ok")))
}

func TestIsSubtypeOfRecordWidth(t *testing.T) {
	wide := &Record{Fields: map[string]Type{"x": Int, "y": Bool}, Row: ClosedRow{}}
	narrow := &Record{Fields: map[string]Type{"x": Int}, Row: ClosedRow{}}
	assert.True(t, IsSubtypeOf(wide, narrow))
	assert.False(t, IsSubtypeOf(narrow, wide))
}
