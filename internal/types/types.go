// Package types implements the type algebra, substitution, type schemes,
// the type environment, unification, and the structured error taxonomy for
// the mini-bendu type checker (spec §3, §4.1-§4.3, §4.6, §4.8).
package types

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"
)

// Type is the closed set of type-algebra variants (spec §3). Every variant
// is immutable once constructed; equality is structural unless otherwise
// noted on the variant itself.
type Type interface {
	// String renders the type for diagnostics and the getTypeInformation
	// façade (spec §4.9).
	String() string

	// FreeVariables returns every type variable reachable from this type,
	// keyed by variable id. For Record it includes an open row's tail
	// variable; for Alias it is the union over the argument list (spec §4.1).
	FreeVariables() VarSet

	// Apply performs structural substitution. Applying Apply twice with the
	// same idempotent substitution is a no-op the second time (spec §4.1,
	// §8 substitution closure).
	Apply(s Substitution) Type

	// StructurallyEquivalent is deep equality modulo unordered members of
	// Union/Intersection/Record.Fields (spec §4.1).
	StructurallyEquivalent(other Type) bool
}

// VarSet is a set of type-variable ids.
type VarSet map[uint64]*TypeVariable

func newVarSet() VarSet { return make(VarSet) }

func (s VarSet) add(v *TypeVariable) { s[v.ID] = v }

func (s VarSet) union(other VarSet) VarSet {
	out := newVarSet()
	for id, v := range s {
		out[id] = v
	}
	for id, v := range other {
		out[id] = v
	}
	return out
}

// Without returns a copy of s with every id in exclude removed.
func (s VarSet) Without(exclude VarSet) VarSet {
	out := newVarSet()
	for id, v := range s {
		if _, excluded := exclude[id]; !excluded {
			out[id] = v
		}
	}
	return out
}

// Sorted returns the set's variables ordered by id, for deterministic
// iteration (generalisation order, pretty-printing).
func (s VarSet) Sorted() []*TypeVariable {
	out := make([]*TypeVariable, 0, len(s))
	for _, v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s VarSet) Has(id uint64) bool {
	_, ok := s[id]
	return ok
}

// ---------------------------------------------------------------------
// Primitive
// ---------------------------------------------------------------------

// PrimitiveName enumerates the built-in primitive type names (spec §3).
type PrimitiveName string

const (
	IntName    PrimitiveName = "Int"
	StringName PrimitiveName = "String"
	BoolName   PrimitiveName = "Bool"
	UnitName   PrimitiveName = "Unit"
	ErrorName  PrimitiveName = "Error"
)

// Primitive is one of the built-in ground types.
type Primitive struct {
	Name PrimitiveName
}

var (
	Int    = &Primitive{Name: IntName}
	String = &Primitive{Name: StringName}
	Bool   = &Primitive{Name: BoolName}
	Unit   = &Primitive{Name: UnitName}
	Error  = &Primitive{Name: ErrorName}
)

func (t *Primitive) String() string            { return string(t.Name) }
func (t *Primitive) FreeVariables() VarSet      { return newVarSet() }
func (t *Primitive) Apply(Substitution) Type    { return t }
func (t *Primitive) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*Primitive)
	return ok && o.Name == t.Name
}

// ---------------------------------------------------------------------
// LiteralString
// ---------------------------------------------------------------------

// LiteralString is a singleton type inhabited only by the string Value.
// It is NOT structurally equivalent to Primitive(String); it IS a subtype
// of it (spec §3, §4.1).
type LiteralString struct {
	Value string
}

// NewLiteralString NFC-normalizes Value before it becomes part of the
// type's identity, so differently-encoded-but-equal source literals
// ("café" NFC vs NFD) denote the same singleton type (SPEC_FULL.md domain
// stack: golang.org/x/text/unicode/norm).
func NewLiteralString(value string) *LiteralString {
	b := []byte(value)
	if !norm.NFC.IsNormal(b) {
		b = norm.NFC.Bytes(b)
	}
	return &LiteralString{Value: string(b)}
}

func (t *LiteralString) String() string         { return fmt.Sprintf("%q", t.Value) }
func (t *LiteralString) FreeVariables() VarSet   { return newVarSet() }
func (t *LiteralString) Apply(Substitution) Type { return t }
func (t *LiteralString) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*LiteralString)
	return ok && o.Value == t.Value
}

// ---------------------------------------------------------------------
// TypeVariable
// ---------------------------------------------------------------------

var varCounter uint64

// TypeVariable is an unknown type placeholder, resolved by unification.
// Ids are drawn from a process-wide, thread-safe monotonic counter (spec §5).
type TypeVariable struct {
	ID uint64
}

// NewTypeVar produces a fresh type variable. Safe for concurrent use.
func NewTypeVar() *TypeVariable {
	return &TypeVariable{ID: atomic.AddUint64(&varCounter, 1)}
}

func (t *TypeVariable) String() string { return fmt.Sprintf("t%d", t.ID) }

func (t *TypeVariable) FreeVariables() VarSet {
	s := newVarSet()
	s.add(t)
	return s
}

func (t *TypeVariable) Apply(s Substitution) Type {
	if repl, ok := s[t.ID]; ok {
		return repl
	}
	return t
}

func (t *TypeVariable) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*TypeVariable)
	return ok && o.ID == t.ID
}

// ---------------------------------------------------------------------
// Function
// ---------------------------------------------------------------------

// Function is a unary function type; multi-argument lambdas curry (spec §3).
type Function struct {
	Domain   Type
	Codomain Type
}

func (t *Function) String() string {
	dom := t.Domain.String()
	if _, ok := t.Domain.(*Function); ok {
		dom = "(" + dom + ")"
	}
	return fmt.Sprintf("%s -> %s", dom, t.Codomain.String())
}

func (t *Function) FreeVariables() VarSet {
	return t.Domain.FreeVariables().union(t.Codomain.FreeVariables())
}

func (t *Function) Apply(s Substitution) Type {
	return &Function{Domain: t.Domain.Apply(s), Codomain: t.Codomain.Apply(s)}
}

func (t *Function) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*Function)
	return ok && t.Domain.StructurallyEquivalent(o.Domain) && t.Codomain.StructurallyEquivalent(o.Codomain)
}

// ---------------------------------------------------------------------
// Tuple
// ---------------------------------------------------------------------

// Tuple is an ordered sequence of element types, length >= 1 (spec §3).
type Tuple struct {
	Elements []Type
}

// NewTuple panics if elements is empty; callers (the generator) never
// produce empty tuples, matching spec §3's length >= 1 invariant.
func NewTuple(elements []Type) *Tuple {
	if len(elements) == 0 {
		panic("types: Tuple requires at least one element")
	}
	return &Tuple{Elements: elements}
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Tuple) FreeVariables() VarSet {
	out := newVarSet()
	for _, e := range t.Elements {
		out = out.union(e.FreeVariables())
	}
	return out
}

func (t *Tuple) Apply(s Substitution) Type {
	elems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.Apply(s)
	}
	return &Tuple{Elements: elems}
}

func (t *Tuple) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*Tuple)
	if !ok || len(o.Elements) != len(t.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].StructurallyEquivalent(o.Elements[i]) {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------
// Record & Row
// ---------------------------------------------------------------------

// Row is a record's tail: either ClosedRow (exactly the listed fields) or
// OpenRow (at least the listed fields, with Var standing for the unknown
// remainder). The two cases are distinct types, so every unification and
// substitution site switches on the row kind rather than checking for a nil
// tail variable.
type Row interface {
	String() string
	isRow()
}

// ClosedRow means the owning record has exactly its listed fields.
type ClosedRow struct{}

func (ClosedRow) String() string { return "" }
func (ClosedRow) isRow()         {}

// OpenRow means the owning record has at least its listed fields; Var
// stands for the unknown remainder.
type OpenRow struct {
	Var *TypeVariable
}

func (r OpenRow) String() string { return " | " + r.Var.String() }
func (OpenRow) isRow()           {}

// Record is a record type with row polymorphism (spec §3).
type Record struct {
	Fields map[string]Type
	Row    Row
}

func (t *Record) String() string {
	names := make([]string, 0, len(t.Fields))
	for n := range t.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s: %s", n, t.Fields[n].String())
	}
	return "{" + strings.Join(parts, ", ") + "}" + t.Row.String()
}

func (t *Record) FreeVariables() VarSet {
	out := newVarSet()
	for _, f := range t.Fields {
		out = out.union(f.FreeVariables())
	}
	if open, ok := t.Row.(OpenRow); ok {
		out.add(open.Var)
	}
	return out
}

func (t *Record) Apply(s Substitution) Type {
	fields := make(map[string]Type, len(t.Fields))
	for n, f := range t.Fields {
		fields[n] = f.Apply(s)
	}
	row := t.Row
	if open, ok := t.Row.(OpenRow); ok {
		substituted := open.Var.Apply(s)
		switch st := substituted.(type) {
		case *TypeVariable:
			row = OpenRow{Var: st}
		case *Record:
			// The row variable was bound to another record's row during
			// row unification; absorb its fields and tail.
			for n, f := range st.Fields {
				fields[n] = f
			}
			row = st.Row
		default:
			row = ClosedRow{}
		}
	}
	return &Record{Fields: fields, Row: row}
}

func (t *Record) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*Record)
	if !ok || len(o.Fields) != len(t.Fields) {
		return false
	}
	for n, f := range t.Fields {
		of, exists := o.Fields[n]
		if !exists || !f.StructurallyEquivalent(of) {
			return false
		}
	}
	switch r := t.Row.(type) {
	case ClosedRow:
		_, closed := o.Row.(ClosedRow)
		return closed
	case OpenRow:
		oo, open := o.Row.(OpenRow)
		return open && r.Var.ID == oo.Var.ID
	default:
		return false
	}
}

// ---------------------------------------------------------------------
// Union & Intersection
// ---------------------------------------------------------------------

// Union is a canonicalised set of alternatives, |set| >= 2 (spec §3).
type Union struct {
	Alternatives []Type
}

// NewUnion flattens nested unions and returns the sole element directly if
// the flattened, deduplicated set has size 1; otherwise a *Union with
// |set| >= 2 (spec §3 canonicalisation).
func NewUnion(members []Type) Type {
	flat := flattenSet(members, func(t Type) ([]Type, bool) {
		u, ok := t.(*Union)
		if !ok {
			return nil, false
		}
		return u.Alternatives, true
	})
	if len(flat) == 1 {
		return flat[0]
	}
	return &Union{Alternatives: flat}
}

func (t *Union) String() string {
	parts := make([]string, len(t.Alternatives))
	for i, a := range t.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

func (t *Union) FreeVariables() VarSet {
	out := newVarSet()
	for _, a := range t.Alternatives {
		out = out.union(a.FreeVariables())
	}
	return out
}

func (t *Union) Apply(s Substitution) Type {
	out := make([]Type, len(t.Alternatives))
	for i, a := range t.Alternatives {
		out[i] = a.Apply(s)
	}
	return NewUnion(out)
}

func (t *Union) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*Union)
	return ok && sameSet(t.Alternatives, o.Alternatives)
}

// Intersection is a canonicalised set of members, |set| >= 2 (spec §3),
// with rules symmetric to Union.
type Intersection struct {
	Members []Type
}

// NewIntersection is Union's symmetric canonicalisation counterpart.
func NewIntersection(members []Type) Type {
	flat := flattenSet(members, func(t Type) ([]Type, bool) {
		i, ok := t.(*Intersection)
		if !ok {
			return nil, false
		}
		return i.Members, true
	})
	if len(flat) == 1 {
		return flat[0]
	}
	return &Intersection{Members: flat}
}

func (t *Intersection) String() string {
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " & ")
}

func (t *Intersection) FreeVariables() VarSet {
	out := newVarSet()
	for _, m := range t.Members {
		out = out.union(m.FreeVariables())
	}
	return out
}

func (t *Intersection) Apply(s Substitution) Type {
	out := make([]Type, len(t.Members))
	for i, m := range t.Members {
		out[i] = m.Apply(s)
	}
	return NewIntersection(out)
}

func (t *Intersection) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*Intersection)
	return ok && sameSet(t.Members, o.Members)
}

// flattenSet inlines any member matching unwrap, then dedups by String(),
// returning a deterministically (lexically) ordered slice.
func flattenSet(members []Type, unwrap func(Type) ([]Type, bool)) []Type {
	var flat []Type
	for _, m := range members {
		if nested, ok := unwrap(m); ok {
			flat = append(flat, nested...)
		} else {
			flat = append(flat, m)
		}
	}
	seen := make(map[string]Type)
	order := make([]string, 0, len(flat))
	for _, m := range flat {
		key := m.String()
		if _, ok := seen[key]; !ok {
			seen[key] = m
			order = append(order, key)
		}
	}
	sort.Strings(order)
	out := make([]Type, len(order))
	for i, k := range order {
		out[i] = seen[k]
	}
	return out
}

func sameSet(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if used[j] {
				continue
			}
			if x.StructurallyEquivalent(y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------
// Alias
// ---------------------------------------------------------------------

// Alias is an opaque named type constructor; two aliases are equivalent
// iff name and arg-lists are pointwise equivalent (spec §3).
type Alias struct {
	Name string
	Args []Type
}

func (t *Alias) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

func (t *Alias) FreeVariables() VarSet {
	out := newVarSet()
	for _, a := range t.Args {
		out = out.union(a.FreeVariables())
	}
	return out
}

func (t *Alias) Apply(s Substitution) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Apply(s)
	}
	return &Alias{Name: t.Name, Args: args}
}

func (t *Alias) StructurallyEquivalent(other Type) bool {
	o, ok := other.(*Alias)
	if !ok || o.Name != t.Name || len(o.Args) != len(t.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].StructurallyEquivalent(o.Args[i]) {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------
// Subtyping (spec §4.1)
// ---------------------------------------------------------------------

// IsSubtypeOf implements the limited subtype predicate of spec §4.1:
// reflexivity, literal-string-to-string widening, intersection projection,
// union injection, and record width subtyping.
func IsSubtypeOf(sub, super Type) bool {
	if sub.StructurallyEquivalent(super) {
		return true
	}
	if lit, ok := sub.(*LiteralString); ok {
		if prim, ok := super.(*Primitive); ok && prim.Name == StringName {
			_ = lit
			return true
		}
	}
	if inter, ok := sub.(*Intersection); ok {
		for _, m := range inter.Members {
			if m.StructurallyEquivalent(super) {
				return true
			}
		}
	}
	if union, ok := super.(*Union); ok {
		for _, a := range union.Alternatives {
			if sub.StructurallyEquivalent(a) {
				return true
			}
		}
	}
	if subRec, ok := sub.(*Record); ok {
		if superRec, ok := super.(*Record); ok {
			return recordWidthSubtype(subRec, superRec)
		}
	}
	return false
}

func recordWidthSubtype(sub, super *Record) bool {
	for name, superType := range super.Fields {
		subType, ok := sub.Fields[name]
		if !ok || !IsSubtypeOf(subType, superType) {
			return false
		}
	}
	return true
}
