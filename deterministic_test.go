package bsonskema_test

import (
	"strconv"
	"testing"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

func TestDecodeDeterministic_FirstCommitWins(t *testing.T) {
	var ran []string
	br := func(name string, commit bool, out int) bsonskema.Branch[int] {
		return func(value.Value) (int, bool) {
			ran = append(ran, name)
			if !commit {
				return bsonskema.Skip[int]()
			}
			return bsonskema.Commit(out)
		}
	}
	got, err := bsonskema.DecodeDeterministic(value.Null{}, br("a", false, 1), br("b", true, 2), br("c", true, 3))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != 2 {
		t.Fatalf("want 2, got %d", got)
	}
	if len(ran) != 2 {
		t.Fatalf("branches after the commit must not run: %v", ran)
	}
}

func TestDecodeDeterministic_NoBranch(t *testing.T) {
	parse := bsonskema.OnKind(value.KindString, func(v value.Value) (int, bool) {
		n, err := strconv.Atoi(string(v.(value.String)))
		if err != nil {
			return bsonskema.Skip[int]()
		}
		return bsonskema.Commit(n)
	})

	if n, err := bsonskema.DecodeDeterministic(value.String("12"), parse); err != nil || n != 12 {
		t.Fatalf("want 12, got %d %v", n, err)
	}
	for _, in := range []value.Value{value.String("twelve"), value.Int32(12), nil} {
		_, err := bsonskema.DecodeDeterministic(in, parse)
		if !bsonskema.IsDeterministicFailure(err) {
			t.Fatalf("%v: expected no_branch, got %v", in, err)
		}
	}
}

func TestKindSet(t *testing.T) {
	ks := bsonskema.Kinds(value.KindString, value.KindInt32)
	if !ks.Has(value.KindInt32) || ks.Has(value.KindInt64) {
		t.Fatalf("membership wrong for %s", ks)
	}
	if !ks.Accepts(value.String("x")) || ks.Accepts(nil) {
		t.Fatalf("accepts wrong for %s", ks)
	}
	if got := ks.String(); got != "string|int32" {
		t.Fatalf("unexpected rendering %q", got)
	}
}
