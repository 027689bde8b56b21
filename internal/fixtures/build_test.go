package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bendu-lang/mini-bendu/internal/ast"
)

func TestBuildIntLiteral(t *testing.T) {
	expr, err := Build("42")
	require.NoError(t, err)
	lit, ok := expr.(*ast.LiteralIntExpr)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Value)
}

func TestBuildLetPolymorphismShape(t *testing.T) {
	expr, err := Build(`let id = \x. x in (id 1, id true)`)
	require.NoError(t, err)
	let, ok := expr.(*ast.LetExpr)
	require.True(t, ok)
	assert.Equal(t, "id", let.Name)
	assert.False(t, let.Recursive)

	lambda, ok := let.Value.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lambda.Params, 1)
	assert.Equal(t, "x", lambda.Params[0].Name)

	tuple, ok := let.Body.(*ast.TupleExpr)
	require.True(t, ok)
	require.Len(t, tuple.Elements, 2)
}

func TestBuildIfMismatch(t *testing.T) {
	expr, err := Build(`if true then 1 else "no"`)
	require.NoError(t, err)
	ifExpr, ok := expr.(*ast.IfExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.LiteralBoolExpr{}, ifExpr.Cond)
	assert.IsType(t, &ast.LiteralIntExpr{}, ifExpr.Then)
	assert.IsType(t, &ast.LiteralStringExpr{}, ifExpr.Else)
}

func TestBuildRecursiveLetFactorial(t *testing.T) {
	expr, err := Build(`let rec fact n = if n == 0 then 1 else n * fact (n - 1) in fact 5`)
	require.NoError(t, err)
	let, ok := expr.(*ast.LetExpr)
	require.True(t, ok)
	assert.True(t, let.Recursive)
	require.Len(t, let.Params, 1)
	assert.Equal(t, "n", let.Params[0].Name)

	app, ok := let.Body.(*ast.ApplicationExpr)
	require.True(t, ok)
	assert.Equal(t, &ast.VarExpr{Name: "fact"}, app.Func)
}

func TestBuildRecordProjection(t *testing.T) {
	expr, err := Build(`let get_x = \r. r.x in get_x { x: 1, y: 2 }`)
	require.NoError(t, err)
	let, ok := expr.(*ast.LetExpr)
	require.True(t, ok)

	lambda, ok := let.Value.(*ast.LambdaExpr)
	require.True(t, ok)
	proj, ok := lambda.Body.(*ast.ProjectionExpr)
	require.True(t, ok)
	assert.Equal(t, "x", proj.Field)

	app, ok := let.Body.(*ast.ApplicationExpr)
	require.True(t, ok)
	record, ok := app.Arg.(*ast.RecordExpr)
	require.True(t, ok)
	assert.Len(t, record.Fields, 2)
}

func TestBuildUndefinedVariable(t *testing.T) {
	expr, err := Build("unbound_name")
	require.NoError(t, err)
	assert.Equal(t, &ast.VarExpr{Name: "unbound_name"}, expr)
}

func TestBuildRejectsTrailingGarbage(t *testing.T) {
	_, err := Build("1 2 )")
	assert.Error(t, err)
}

func TestBuildRejectsIncompleteLet(t *testing.T) {
	_, err := Build("let x = 1")
	assert.Error(t, err)
}
