// Package ast defines the AST node shapes the type checker consumes.
//
// These shapes are the external interface named in spec §6: a parser
// collaborator builds trees out of these nodes and hands them to
// internal/infer and internal/checker. Nothing in this package performs
// lexing, parsing, or concrete-syntax construction.
package ast

import "fmt"

// Location is an opaque source-range value carried by nodes and constraints.
// The core never interprets it beyond carrying it through to errors.
type Location struct {
	Line   int
	Column int
	File   string
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 && l.Column == 0 {
		return ""
	}
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l == Location{}
}

// Node is the base interface implemented by every AST node.
type Node interface {
	Position() Location
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// LiteralIntExpr is an integer literal.
type LiteralIntExpr struct {
	Value int64
	Loc   Location
}

func (e *LiteralIntExpr) Position() Location { return e.Loc }
func (e *LiteralIntExpr) exprNode()          {}

// LiteralStringExpr is a string literal. Its type is a singleton
// LiteralString type, not Primitive(String) — see spec §4.7.
type LiteralStringExpr struct {
	Value string
	Loc   Location
}

func (e *LiteralStringExpr) Position() Location { return e.Loc }
func (e *LiteralStringExpr) exprNode()          {}

// LiteralBoolExpr is a boolean literal.
type LiteralBoolExpr struct {
	Value bool
	Loc   Location
}

func (e *LiteralBoolExpr) Position() Location { return e.Loc }
func (e *LiteralBoolExpr) exprNode()          {}

// VarExpr references a bound name.
type VarExpr struct {
	Name string
	Loc  Location
}

func (e *VarExpr) Position() Location { return e.Loc }
func (e *VarExpr) exprNode()          {}

// BinaryOpExpr applies a binary operator. Op is one of the arithmetic,
// comparison, or logical operators named in spec §4.7.
type BinaryOpExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Loc   Location
}

func (e *BinaryOpExpr) Position() Location { return e.Loc }
func (e *BinaryOpExpr) exprNode()          {}

// IfExpr is a conditional expression.
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Loc  Location
}

func (e *IfExpr) Position() Location { return e.Loc }
func (e *IfExpr) exprNode()          {}

// LambdaParam is one parameter of a lambda, with an optional type
// annotation (a BaseTypeExpr).
type LambdaParam struct {
	Name       string
	Annotation BaseTypeExpr // nil if unannotated
	Loc        Location
}

// LambdaExpr is a (possibly multi-argument, curried) lambda.
type LambdaExpr struct {
	Params []LambdaParam
	Body   Expr
	Loc    Location
}

func (e *LambdaExpr) Position() Location { return e.Loc }
func (e *LambdaExpr) exprNode()          {}

// ApplicationExpr applies a function to a single argument. Multi-argument
// calls are represented as nested applications by the parser collaborator.
type ApplicationExpr struct {
	Func Expr
	Arg  Expr
	Loc  Location
}

func (e *ApplicationExpr) Position() Location { return e.Loc }
func (e *ApplicationExpr) exprNode()          {}

// LetExpr is a let (or let rec) binding of a single name; a group of
// mutually-recursive bindings has no node of its own.
// Recursive is the `rec` flag from spec §4.7/§6. TypeParams and Annotation
// are optional; Params, when non-empty, sugar a function binding
// `let f p1 p2 = value` into `let f = \p1. \p2. value` at generation time.
type LetExpr struct {
	Name       string
	Recursive  bool
	TypeParams []string
	Params     []LambdaParam
	Annotation BaseTypeExpr
	Value      Expr
	Body       Expr
	Loc        Location
}

func (e *LetExpr) Position() Location { return e.Loc }
func (e *LetExpr) exprNode()          {}

// TupleExpr is an ordered, non-empty tuple literal.
type TupleExpr struct {
	Elements []Expr
	Loc      Location
}

func (e *TupleExpr) Position() Location { return e.Loc }
func (e *TupleExpr) exprNode()          {}

// FieldExpr is one name:value pair of a record literal.
type FieldExpr struct {
	Name  string
	Value Expr
	Loc   Location
}

// RecordExpr is a record literal; its inferred type is always a closed row
// (spec §4.7 "row polymorphism arises from projection rather than literals").
type RecordExpr struct {
	Fields []FieldExpr
	Loc    Location
}

func (e *RecordExpr) Position() Location { return e.Loc }
func (e *RecordExpr) exprNode()          {}

// ProjectionExpr projects a single field out of a record-typed expression.
type ProjectionExpr struct {
	Record Expr
	Field  string
	Loc    Location
}

func (e *ProjectionExpr) Position() Location { return e.Loc }
func (e *ProjectionExpr) exprNode()          {}

// MatchCase is one arm of a MatchExpr.
type MatchCase struct {
	Pattern Pattern
	Body    Expr
	Loc     Location
}

// MatchExpr pattern-matches a scrutinee against an ordered list of cases.
type MatchExpr struct {
	Scrutinee Expr
	Cases     []MatchCase
	Loc       Location
}

func (e *MatchExpr) Position() Location { return e.Loc }
func (e *MatchExpr) exprNode()          {}

// Pattern is implemented by every pattern-match pattern kind.
type Pattern interface {
	Node
	patternNode()
}

// LiteralIntPattern matches an exact integer.
type LiteralIntPattern struct {
	Value int64
	Loc   Location
}

func (p *LiteralIntPattern) Position() Location { return p.Loc }
func (p *LiteralIntPattern) patternNode()       {}

// LiteralBoolPattern matches an exact boolean.
type LiteralBoolPattern struct {
	Value bool
	Loc   Location
}

func (p *LiteralBoolPattern) Position() Location { return p.Loc }
func (p *LiteralBoolPattern) patternNode()       {}

// LiteralStringPattern matches an exact string.
type LiteralStringPattern struct {
	Value string
	Loc   Location
}

func (p *LiteralStringPattern) Position() Location { return p.Loc }
func (p *LiteralStringPattern) patternNode()       {}

// VarPattern binds the scrutinee (or sub-scrutinee) to a name.
type VarPattern struct {
	Name string
	Loc  Location
}

func (p *VarPattern) Position() Location { return p.Loc }
func (p *VarPattern) patternNode()       {}

// TuplePattern destructures a tuple.
type TuplePattern struct {
	Elements []Pattern
	Loc      Location
}

func (p *TuplePattern) Position() Location { return p.Loc }
func (p *TuplePattern) patternNode()       {}

// FieldPattern is one name:pattern pair of a RecordPattern.
type FieldPattern struct {
	Name    string
	Pattern Pattern
	Loc     Location
}

// RecordPattern destructures a record. It is always row-polymorphic: it
// constrains the scrutinee to have at least the named fields (spec §4.7).
type RecordPattern struct {
	Fields []FieldPattern
	Loc    Location
}

func (p *RecordPattern) Position() Location { return p.Loc }
func (p *RecordPattern) patternNode()       {}

// BaseTypeExpr is implemented by the concrete-syntax type annotation nodes
// a parser collaborator attaches to lambda parameters and let bindings.
// The generator (internal/infer) lowers these into internal/types.Type.
type BaseTypeExpr interface {
	Node
	baseTypeNode()
}

// NamedTypeExpr is a reference to a primitive or alias type by name, with
// optional type arguments (for alias applications).
type NamedTypeExpr struct {
	Name string
	Args []BaseTypeExpr
	Loc  Location
}

func (t *NamedTypeExpr) Position() Location { return t.Loc }
func (t *NamedTypeExpr) baseTypeNode()      {}

// FuncTypeExpr annotates a function type.
type FuncTypeExpr struct {
	Domain   BaseTypeExpr
	Codomain BaseTypeExpr
	Loc      Location
}

func (t *FuncTypeExpr) Position() Location { return t.Loc }
func (t *FuncTypeExpr) baseTypeNode()      {}
