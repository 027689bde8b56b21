package types

import "sort"

// Unify attempts to unify two types, returning a substitution or a
// structured error (spec §4.3). It is exposed as a free function so the
// solver, the generator, and tests can all call it directly (spec §6).
func Unify(t1, t2 Type) (Substitution, error) {
	if t1.StructurallyEquivalent(t2) {
		return Substitution{}, nil
	}

	switch l := t1.(type) {
	case *TypeVariable:
		return unifyVar(l, t2)

	case *Primitive:
		if r, ok := t2.(*Primitive); ok {
			if r.Name == l.Name {
				return Substitution{}, nil
			}
			return nil, &TypeMismatch{Expected: l, Actual: r}
		}
		if r, ok := t2.(*TypeVariable); ok {
			return unifyVar(r, l)
		}
		return nil, &TypeMismatch{Expected: l, Actual: t2}

	case *LiteralString:
		if r, ok := t2.(*LiteralString); ok {
			if r.Value == l.Value {
				return Substitution{}, nil
			}
			return nil, &TypeMismatch{Expected: l, Actual: r}
		}
		if r, ok := t2.(*TypeVariable); ok {
			return unifyVar(r, l)
		}
		return nil, &TypeMismatch{Expected: l, Actual: t2}

	case *Function:
		r, ok := t2.(*Function)
		if !ok {
			if rv, ok := t2.(*TypeVariable); ok {
				return unifyVar(rv, l)
			}
			return nil, &TypeMismatch{Expected: l, Actual: t2}
		}
		s1, err := Unify(l.Domain, r.Domain)
		if err != nil {
			return nil, err
		}
		s2, err := Unify(Apply(s1, l.Codomain), Apply(s1, r.Codomain))
		if err != nil {
			return nil, err
		}
		return Compose(s2, s1), nil

	case *Tuple:
		r, ok := t2.(*Tuple)
		if !ok {
			if rv, ok := t2.(*TypeVariable); ok {
				return unifyVar(rv, l)
			}
			return nil, &TypeMismatch{Expected: l, Actual: t2}
		}
		if len(l.Elements) != len(r.Elements) {
			return nil, &TypeMismatch{Expected: l, Actual: r, Context: "tuple length mismatch"}
		}
		sub := Substitution{}
		for i := range l.Elements {
			s, err := Unify(Apply(sub, l.Elements[i]), Apply(sub, r.Elements[i]))
			if err != nil {
				return nil, err
			}
			sub = Compose(s, sub)
		}
		return sub, nil

	case *Record:
		r, ok := t2.(*Record)
		if !ok {
			if rv, ok := t2.(*TypeVariable); ok {
				return unifyVar(rv, l)
			}
			return nil, &TypeMismatch{Expected: l, Actual: t2}
		}
		return unifyRecords(l, r)

	case *Union:
		r, ok := t2.(*Union)
		if !ok || !l.StructurallyEquivalent(r) {
			return nil, &TypeMismatch{Expected: l, Actual: t2, Context: "union types are unified nominally"}
		}
		return Substitution{}, nil

	case *Intersection:
		r, ok := t2.(*Intersection)
		if !ok || !l.StructurallyEquivalent(r) {
			return nil, &TypeMismatch{Expected: l, Actual: t2, Context: "intersection types are unified nominally"}
		}
		return Substitution{}, nil

	case *Alias:
		r, ok := t2.(*Alias)
		if !ok || r.Name != l.Name || len(r.Args) != len(l.Args) {
			if rv, ok := t2.(*TypeVariable); ok {
				return unifyVar(rv, l)
			}
			return nil, &TypeMismatch{Expected: l, Actual: t2}
		}
		sub := Substitution{}
		for i := range l.Args {
			s, err := Unify(Apply(sub, l.Args[i]), Apply(sub, r.Args[i]))
			if err != nil {
				return nil, err
			}
			sub = Compose(s, sub)
		}
		return sub, nil

	default:
		return nil, &TypeMismatch{Expected: t1, Actual: t2}
	}
}

func unifyVar(v *TypeVariable, t Type) (Substitution, error) {
	if other, ok := t.(*TypeVariable); ok && other.ID == v.ID {
		return Substitution{}, nil
	}
	if t.FreeVariables().Has(v.ID) {
		return nil, &OccursCheckFailure{Variable: v, ContainingType: t}
	}
	return Substitution{v.ID: t}, nil
}

// unifyRecords implements spec §4.3's record-unification rules: unify
// shared fields pointwise, then reconcile rows (closed/closed requires
// equal field sets; closed/open binds the open tail to the closed side's
// extra fields; open/open introduces a fresh common tail).
func unifyRecords(l, r *Record) (Substitution, error) {
	sub := Substitution{}
	for name, lt := range l.Fields {
		if rt, ok := r.Fields[name]; ok {
			s, err := Unify(Apply(sub, lt), Apply(sub, rt))
			if err != nil {
				return nil, err
			}
			sub = Compose(s, sub)
		}
	}

	extraInL := fieldsOnlyIn(l, r)
	extraInR := fieldsOnlyIn(r, l)

	lOpen, lIsOpen := l.Row.(OpenRow)
	rOpen, rIsOpen := r.Row.(OpenRow)

	switch {
	case !lIsOpen && !rIsOpen:
		if len(extraInL) > 0 || len(extraInR) > 0 {
			return nil, &RowMismatch{Missing: fieldNames(extraInR), Extra: fieldNames(extraInL)}
		}
		return sub, nil

	case !lIsOpen && rIsOpen:
		if len(extraInR) > 0 {
			return nil, &RowMismatch{Extra: fieldNames(extraInR)}
		}
		binding := &Record{Fields: applyFields(sub, extraInL), Row: ClosedRow{}}
		s, err := unifyVar(rOpen.Var, binding)
		if err != nil {
			return nil, err
		}
		return Compose(s, sub), nil

	case lIsOpen && !rIsOpen:
		if len(extraInL) > 0 {
			return nil, &RowMismatch{Extra: fieldNames(extraInL)}
		}
		binding := &Record{Fields: applyFields(sub, extraInR), Row: ClosedRow{}}
		s, err := unifyVar(lOpen.Var, binding)
		if err != nil {
			return nil, err
		}
		return Compose(s, sub), nil

	default: // both open
		tail := NewTypeVar()
		lBinding := &Record{Fields: applyFields(sub, extraInR), Row: OpenRow{Var: tail}}
		s1, err := unifyVar(lOpen.Var, lBinding)
		if err != nil {
			return nil, err
		}
		sub = Compose(s1, sub)
		rBinding := &Record{Fields: applyFields(sub, extraInL), Row: OpenRow{Var: tail}}
		s2, err := unifyVar(rOpen.Var, rBinding)
		if err != nil {
			return nil, err
		}
		return Compose(s2, sub), nil
	}
}

func fieldsOnlyIn(a, b *Record) map[string]Type {
	out := make(map[string]Type)
	for name, t := range a.Fields {
		if _, ok := b.Fields[name]; !ok {
			out[name] = t
		}
	}
	return out
}

func applyFields(s Substitution, fields map[string]Type) map[string]Type {
	out := make(map[string]Type, len(fields))
	for name, t := range fields {
		out[name] = Apply(s, t)
	}
	return out
}

func fieldNames(fields map[string]Type) []string {
	out := make([]string, 0, len(fields))
	for name := range fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
