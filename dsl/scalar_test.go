package dsl_test

import (
	"errors"
	"strings"
	"testing"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/dsl"
	"github.com/reoring/bsonskema/value"
)

type celsius float64

func celsiusSchema() *dsl.ScalarBuilder[celsius] {
	return dsl.Scalar[celsius]("celsius").
		Accept(value.KindDouble).
		When(func(v value.Value) bool {
			s, ok := v.(value.String)
			return ok && strings.HasSuffix(string(s), "C")
		}).
		Branch(bsonskema.OnKind(value.KindDouble, func(v value.Value) (celsius, bool) {
			return bsonskema.Commit(celsius(v.(value.Double)))
		})).
		Branch(bsonskema.OnKind(value.KindString, func(v value.Value) (celsius, bool) {
			if string(v.(value.String)) == "0C" {
				return bsonskema.Commit(celsius(0))
			}
			return bsonskema.Skip[celsius]()
		})).
		EncodeWith(func(c celsius) (value.Value, error) { return value.Double(c), nil })
}

func TestScalar_Custom(t *testing.T) {
	s := celsiusSchema().MustBuild()
	if got, err := s.Decode(value.Double(21.5)); err != nil || got != 21.5 {
		t.Fatalf("double: %v %v", got, err)
	}
	if got, err := s.Decode(value.String("0C")); err != nil || got != 0 {
		t.Fatalf("predicate-accepted string: %v %v", got, err)
	}
	if _, err := s.Decode(value.String("12C")); !bsonskema.IsDeterministicFailure(err) {
		t.Fatalf("accepted but uncommitted should be no_branch: %v", err)
	}
	if _, err := s.Decode(value.String("12F")); !bsonskema.HasCode(err, bsonskema.CodeInvalidType) {
		t.Fatalf("unaccepted should be invalid_type: %v", err)
	}
	if s.Name() != "celsius" || !s.Kinds().Has(value.KindDouble) {
		t.Fatalf("introspection")
	}
}

func TestScalar_MissingBlocks(t *testing.T) {
	_, err := dsl.Scalar[int]("noDecode").EncodeWith(func(int) (value.Value, error) { return value.Null{}, nil }).Build()
	var ce *bsonskema.ConfigError
	if !errors.As(err, &ce) || ce.Field != "decode block" {
		t.Fatalf("expected decode block config error, got %v", err)
	}
	_, err = dsl.Scalar[int]("noEncode").Branch(func(value.Value) (int, bool) { return 1, true }).Build()
	if !errors.As(err, &ce) || ce.Field != "encode block" {
		t.Fatalf("expected encode block config error, got %v", err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustBuild should panic")
		} else if _, ok := r.(*bsonskema.ConfigError); !ok {
			t.Fatalf("panic value should be a *ConfigError, got %T", r)
		}
	}()
	dsl.Scalar[int]("none").MustBuild()
}

func TestScalar_CanEncodeAndEncodeErrors(t *testing.T) {
	s := dsl.Scalar[int]("positive").
		Accept(value.KindInt32).
		Branch(func(v value.Value) (int, bool) { return int(v.(value.Int32)), true }).
		CanEncode(func(n int) bool { return n > 0 }).
		EncodeWith(func(n int) (value.Value, error) {
			if n == 13 {
				return nil, errors.New("unlucky")
			}
			return value.Int32(n), nil
		}).
		MustBuild()
	if s.CanEncode(-1) {
		t.Fatalf("CanEncode predicate ignored")
	}
	if _, err := s.Encode(-1); !bsonskema.HasCode(err, bsonskema.CodeEncodeFailed) {
		t.Fatalf("rejected value: %v", err)
	}
	if _, err := s.Encode(13); !bsonskema.HasCode(err, bsonskema.CodeEncodeFailed) {
		t.Fatalf("encoder error: %v", err)
	}
}

func TestScalar_DeferredRunsOnceInOrder(t *testing.T) {
	var order []int
	b := celsiusSchema()
	b.Defer(func() { order = append(order, 1) }).Defer(func() { order = append(order, 2) })
	if b.Pending() != 2 {
		t.Fatalf("pending = %d", b.Pending())
	}
	b.MustBuild()
	b.MustBuild()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("deferred callbacks ran as %v", order)
	}
}

func TestScalar_BuildIsolatedFromLaterMutation(t *testing.T) {
	b := celsiusSchema()
	s := b.MustBuild()
	b.Accept(value.KindInt32)
	if s.CanDecode(value.Int32(1)) {
		t.Fatalf("built schema changed after builder mutation")
	}
}
