package dsl

import (
	"strconv"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

func quote(s string) string { return strconv.Quote(s) }

func cloneSlice[E any](in []E) []E {
	if len(in) == 0 {
		return nil
	}
	return append([]E(nil), in...)
}

func kindOf(v value.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}

func invalidType(name string, expected bsonskema.KindSet, got value.Value) bsonskema.Issues {
	hint := name + ": got " + kindOf(got)
	if expected != 0 {
		hint += ", expected " + expected.String()
	}
	return bsonskema.NewIssue(bsonskema.CodeInvalidType, hint, nil)
}

// asEncodeIssue keeps Issues intact and wraps anything else as encode_failed.
func asEncodeIssue(err error) error {
	if _, ok := bsonskema.AsIssues(err); ok {
		return err
	}
	return bsonskema.NewIssue(bsonskema.CodeEncodeFailed, err.Error(), err)
}

// asHookIssue keeps Issues intact and wraps anything else as hook_failed.
func asHookIssue(err error) error {
	if _, ok := bsonskema.AsIssues(err); ok {
		return err
	}
	return bsonskema.NewIssue(bsonskema.CodeHookFailed, err.Error(), err)
}

// runHooks applies hooks in registration order, threading the value.
func runHooks[T any](v T, hooks []func(T) (T, error)) (T, error) {
	for _, h := range hooks {
		var err error
		v, err = h(v)
		if err != nil {
			var zero T
			return zero, asHookIssue(err)
		}
	}
	return v, nil
}

// decodeVia runs the first override whose CanDecode accepts v, falling back to
// the schema.
func decodeVia[T any](v value.Value, overrides []bsonskema.Coercer[T], s bsonskema.Coercer[T]) (T, error) {
	for _, o := range overrides {
		if o.CanDecode(v) {
			return o.Decode(v)
		}
	}
	return s.Decode(v)
}

// canDecodeVia reports whether an override or the schema accepts v.
func canDecodeVia[T any](v value.Value, overrides []bsonskema.Coercer[T], s bsonskema.Coercer[T]) bool {
	for _, o := range overrides {
		if o.CanDecode(v) {
			return true
		}
	}
	return s.CanDecode(v)
}

// encodeVia runs the first override whose CanEncode accepts v, falling back to
// the schema.
func encodeVia[T any](v T, overrides []bsonskema.ConditionalEncoder[T], s bsonskema.Encoder[T]) (value.Value, error) {
	for _, o := range overrides {
		if o.CanEncode(v) {
			return o.Encode(v)
		}
	}
	return s.Encode(v)
}

// elementOptions forwards an options query when s exposes options.
func elementOptions[T any](s bsonskema.Schema[T], m bsonskema.AnyModel, root any, pathname string, instance T) []bsonskema.OptionData {
	if es, ok := s.(bsonskema.ElementSchema[T]); ok {
		return es.ObtainOptions(m, root, pathname, instance)
	}
	return nil
}

// elementStaticOptions forwards a static options query when s exposes options.
func elementStaticOptions[T any](s bsonskema.Schema[T], m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	if es, ok := s.(bsonskema.ElementSchema[T]); ok {
		return es.ObtainStaticOptions(m, pathname, visited)
	}
	return nil
}
