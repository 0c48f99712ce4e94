package bsonskema

import (
	"github.com/reoring/bsonskema/value"
)

// DecodeDeterministic tries branches in order and returns the value of the first
// one that commits. When no branch commits the result is a CodeNoBranch issue.
//
// A branch returning ok=false must not have side effects: later branches (or the
// failure) take over as if it had never run.
func DecodeDeterministic[T any](v value.Value, branches ...Branch[T]) (T, error) {
	for _, br := range branches {
		if out, ok := br(v); ok {
			return out, nil
		}
	}
	var zero T
	return zero, noBranch(v)
}

func noBranch(v value.Value) Issues {
	hint := "nil"
	if v != nil {
		hint = v.Kind().String()
	}
	return NewIssue(CodeNoBranch, hint, nil)
}

// OnKind returns a branch that runs fn only for values tagged k.
func OnKind[T any](k value.Kind, fn func(v value.Value) (T, bool)) Branch[T] {
	return func(v value.Value) (T, bool) {
		if v == nil || v.Kind() != k {
			var zero T
			return zero, false
		}
		return fn(v)
	}
}

// Commit is a branch helper returning v as a committed result.
func Commit[T any](v T) (T, bool) { return v, true }

// Skip is a branch helper declining to commit.
func Skip[T any]() (T, bool) {
	var zero T
	return zero, false
}

// KindSet is a set of accepted value kinds.
type KindSet uint16

// Kinds builds a KindSet.
func Kinds(ks ...value.Kind) KindSet {
	var s KindSet
	for _, k := range ks {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k value.Kind) bool { return s&(1<<k) != 0 }

// Accepts reports whether v's kind is in the set.
func (s KindSet) Accepts(v value.Value) bool { return v != nil && s.Has(v.Kind()) }

// List returns the kinds in tag order.
func (s KindSet) List() []value.Kind {
	var out []value.Kind
	for k := value.KindString; k <= value.KindDocument; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s KindSet) String() string {
	b := make([]byte, 0, 64)
	for i, k := range s.List() {
		if i > 0 {
			b = append(b, '|')
		}
		b = append(b, k.String()...)
	}
	return string(b)
}
