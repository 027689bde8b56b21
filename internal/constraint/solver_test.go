package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bendu-lang/mini-bendu/internal/ast"
	"github.com/bendu-lang/mini-bendu/internal/types"
)

func TestSolveEmptySetSucceeds(t *testing.T) {
	result := NewSolver().Solve(NewSet())
	require.NoError(t, result.Err)
	assert.Empty(t, result.Substitution)
}

func TestSolveChainedEqualitiesComposeSubstitution(t *testing.T) {
	a := types.NewTypeVar()
	b := types.NewTypeVar()
	set := NewSet(
		NewEquality(a, b, ast.Location{}, OriginInference),
		NewEquality(b, types.Int, ast.Location{}, OriginInference),
	)

	result := NewSolver().Solve(set)
	require.NoError(t, result.Err)
	assert.True(t, types.Apply(result.Substitution, a).StructurallyEquivalent(types.Int))
}

func TestSolveFailureIsLocatedWhenConstraintCarriesLocation(t *testing.T) {
	loc := ast.Location{Line: 3, Column: 5, File: "prog.mb"}
	set := NewSet(NewEquality(types.Int, types.Bool, loc, OriginInference))

	result := NewSolver().Solve(set)
	require.Error(t, result.Err)

	var located *types.LocatedError
	require.ErrorAs(t, result.Err, &located)
	assert.Equal(t, loc, located.Location)
}

func TestSolveSubtypingReducesToEquality(t *testing.T) {
	v := types.NewTypeVar()
	set := NewSet(NewSubtyping(v, types.Int, ast.Location{}, OriginSubtyping))

	result := NewSolver().Solve(set)
	require.NoError(t, result.Err)
	assert.True(t, types.Apply(result.Substitution, v).StructurallyEquivalent(types.Int))
}

func TestSolveSubtypingOnRecordsChecksSharedFieldsOnly(t *testing.T) {
	sub := &types.Record{Fields: map[string]types.Type{"x": types.Int, "y": types.Bool}, Row: types.ClosedRow{}}
	super := &types.Record{Fields: map[string]types.Type{"x": types.Int}, Row: types.ClosedRow{}}

	result := NewSolver().Solve(NewSet(NewSubtyping(sub, super, ast.Location{}, OriginSubtyping)))
	require.NoError(t, result.Err)
}

func TestSolveSubtypingMissingFieldFails(t *testing.T) {
	sub := &types.Record{Fields: map[string]types.Type{"x": types.Int}, Row: types.ClosedRow{}}
	super := &types.Record{Fields: map[string]types.Type{"x": types.Int, "y": types.Bool}, Row: types.ClosedRow{}}

	result := NewSolver().Solve(NewSet(NewSubtyping(sub, super, ast.Location{}, OriginSubtyping)))
	require.Error(t, result.Err)
	var rowErr *types.RowMismatch
	assert.ErrorAs(t, result.Err, &rowErr)
}

func TestSolveInstanceGroundTypeChecksAllowList(t *testing.T) {
	solver := NewSolver()
	solver.Instances["Show"] = func(ty types.Type) bool {
		return ty.StructurallyEquivalent(types.Int)
	}

	ok := NewSet(NewInstance(types.Int, "Show", OriginTypeClass))
	result := NewSolver().Solve(ok) // no allow-list registered: deferred, not rejected
	require.NoError(t, result.Err)

	rejected := NewSet(NewInstance(types.Bool, "Show", OriginTypeClass))
	result2 := solver.Solve(rejected)
	require.Error(t, result2.Err)
	var notSatisfied *types.InstanceNotSatisfied
	assert.ErrorAs(t, result2.Err, &notSatisfied)
}

func TestSolveInstanceDeferredWhenNotGround(t *testing.T) {
	solver := NewSolver()
	solver.Instances["Show"] = func(types.Type) bool { return false }

	v := types.NewTypeVar()
	result := solver.Solve(NewSet(NewInstance(v, "Show", OriginTypeClass)))
	assert.NoError(t, result.Err, "a non-ground Instance obligation is deferred, not rejected")
}
