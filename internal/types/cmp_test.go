package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// typeComparer lets go-cmp diff Type values using the package's own
// StructurallyEquivalent notion of equality (permutation-tolerant for
// Union/Intersection/Record.Fields) rather than reflecting into unexported
// fields.
var typeComparer = cmp.Comparer(func(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.StructurallyEquivalent(b)
})

func TestCmpDiffReportsRecordFieldDifference(t *testing.T) {
	l := &Record{Fields: map[string]Type{"x": Int}, Row: ClosedRow{}}
	r := &Record{Fields: map[string]Type{"x": Bool}, Row: ClosedRow{}}

	diff := cmp.Diff(l, r, typeComparer)
	if diff == "" {
		t.Fatalf("expected cmp.Diff to report a difference between %s and %s", l, r)
	}
}

func TestCmpDiffIsEmptyForStructurallyEquivalentUnions(t *testing.T) {
	l := NewUnion([]Type{Int, Bool})
	r := NewUnion([]Type{Bool, Int})

	diff := cmp.Diff(l, r, typeComparer)
	if diff != "" {
		t.Fatalf("expected no diff between permutation-equal unions, got: %s", diff)
	}
}
