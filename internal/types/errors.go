package types

import (
	"fmt"

	"github.com/bendu-lang/mini-bendu/internal/ast"
)

// Category classifies a structured error (spec §4.8).
type Category string

const (
	CategorySyntax   Category = "Syntax"
	CategoryType     Category = "Type"
	CategorySemantic Category = "Semantic"
	CategoryInternal Category = "Internal"
	CategoryWarning  Category = "Warning"
)

// Severity grades a structured error (spec §4.8).
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
	SeverityInfo    Severity = "Info"
)

// CheckerError is implemented by every structured error the core produces.
// Errors are values, never re-materialised from strings for decision
// making (spec §7); the Error() string exists only for legacy callers.
type CheckerError interface {
	error
	Category() Category
	Severity() Severity
}

// TypeMismatch is produced when unification finds two incompatible shapes
// (spec §4.3, §4.8). Context is an optional human hint (e.g. "tuple length
// mismatch"); it never participates in equality or dispatch.
type TypeMismatch struct {
	Expected Type
	Actual   Type
	Context  string
}

func (e *TypeMismatch) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("type mismatch: expected %s, got %s (%s)", e.Expected, e.Actual, e.Context)
	}
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Actual)
}
func (e *TypeMismatch) Category() Category { return CategoryType }
func (e *TypeMismatch) Severity() Severity { return SeverityError }

// OccursCheckFailure is produced when a variable would unify with a type
// containing itself (spec §4.3).
type OccursCheckFailure struct {
	Variable       *TypeVariable
	ContainingType Type
}

func (e *OccursCheckFailure) Error() string {
	return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Variable, e.ContainingType)
}
func (e *OccursCheckFailure) Category() Category { return CategoryType }
func (e *OccursCheckFailure) Severity() Severity { return SeverityError }

// RowMismatch is produced when two record rows cannot be reconciled
// (spec §4.3).
type RowMismatch struct {
	Missing []string
	Extra   []string
}

func (e *RowMismatch) Error() string {
	switch {
	case len(e.Missing) > 0 && len(e.Extra) > 0:
		return fmt.Sprintf("record row mismatch: missing fields %v, extra fields %v", e.Missing, e.Extra)
	case len(e.Missing) > 0:
		return fmt.Sprintf("record row mismatch: missing fields %v", e.Missing)
	default:
		return fmt.Sprintf("record row mismatch: extra fields %v", e.Extra)
	}
}
func (e *RowMismatch) Category() Category { return CategoryType }
func (e *RowMismatch) Severity() Severity { return SeverityError }

// UndefinedVariable is produced when the generator cannot find a name in
// the environment (spec §4.7).
type UndefinedVariable struct {
	Name string
}

func (e *UndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable: %s", e.Name)
}
func (e *UndefinedVariable) Category() Category { return CategoryType }
func (e *UndefinedVariable) Severity() Severity { return SeverityError }

// NonExhaustivePatternMatch reports a match expression whose cases don't
// cover every constructible value of the scrutinee's type (spec §4.8). The
// generator does not check match exhaustiveness, so nothing in this module
// produces it.
type NonExhaustivePatternMatch struct {
	MissingPatterns []string
}

func (e *NonExhaustivePatternMatch) Error() string {
	return fmt.Sprintf("non-exhaustive pattern match: missing cases %v", e.MissingPatterns)
}
func (e *NonExhaustivePatternMatch) Category() Category { return CategoryType }
func (e *NonExhaustivePatternMatch) Severity() Severity { return SeverityError }

// InstanceNotSatisfied is produced when an Instance constraint's type is
// already ground and fails the built-in membership check (spec §4.5).
type InstanceNotSatisfied struct {
	ClassName string
	Type      Type
}

func (e *InstanceNotSatisfied) Error() string {
	return fmt.Sprintf("no instance of %s for %s", e.ClassName, e.Type)
}
func (e *InstanceNotSatisfied) Category() Category { return CategoryType }
func (e *InstanceNotSatisfied) Severity() Severity { return SeverityError }

// SyntaxError represents an error passed through from the upstream parser
// collaborator (spec §4.8). The core never produces one itself.
type SyntaxError struct {
	Message string
}

func (e *SyntaxError) Error() string        { return e.Message }
func (e *SyntaxError) Category() Category   { return CategorySyntax }
func (e *SyntaxError) Severity() Severity   { return SeverityError }

// CompilerBug indicates an internal invariant violation rather than a
// user-facing type error (spec §4.8).
type CompilerBug struct {
	Message string
	Cause   error
}

func (e *CompilerBug) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}
func (e *CompilerBug) Unwrap() error       { return e.Cause }
func (e *CompilerBug) Category() Category  { return CategoryInternal }
func (e *CompilerBug) Severity() Severity  { return SeverityError }

// UnusedVariable is a warning; it never blocks a Success result (spec §7).
type UnusedVariable struct {
	Name string
}

func (e *UnusedVariable) Error() string        { return fmt.Sprintf("unused variable: %s", e.Name) }
func (e *UnusedVariable) Category() Category   { return CategoryWarning }
func (e *UnusedVariable) Severity() Severity   { return SeverityWarning }

// LocatedError wraps any CheckerError (or plain error) with the source
// location of the constraint/expression that produced it (spec §4.3, §7).
// The solver applies this wrapper whenever the originating constraint
// carried a non-zero Location; otherwise the raw error passes through.
type LocatedError struct {
	Inner    error
	Location ast.Location
}

func (e *LocatedError) Error() string {
	if e.Location.IsZero() {
		return e.Inner.Error()
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Inner.Error())
}

func (e *LocatedError) Unwrap() error { return e.Inner }

func (e *LocatedError) Category() Category {
	if ce, ok := e.Inner.(CheckerError); ok {
		return ce.Category()
	}
	return CategoryType
}

func (e *LocatedError) Severity() Severity {
	if ce, ok := e.Inner.(CheckerError); ok {
		return ce.Severity()
	}
	return SeverityError
}

// WrapLocated wraps err in a LocatedError if loc carries information;
// otherwise it returns err unchanged (spec §4.5, §7).
func WrapLocated(err error, loc ast.Location) error {
	if err == nil || loc.IsZero() {
		return err
	}
	return &LocatedError{Inner: err, Location: loc}
}
