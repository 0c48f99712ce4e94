package bsonskema

import (
	"github.com/reoring/bsonskema/value"
)

// SafeDecode decodes v into T, returning (zero, false) on any failure.
func SafeDecode[T any](s Decoder[T], v value.Value) (T, bool) {
	out, err := s.Decode(v)
	if err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// MustDecode is like Decode but panics on error. Intended for tests and fixtures.
func MustDecode[T any](s Decoder[T], v value.Value) T {
	out, err := s.Decode(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Is returns true if s accepts v and decodes it without error.
func Is[T any](s Coercer[T], v value.Value) bool {
	if !s.CanDecode(v) {
		return false
	}
	_, err := s.Decode(v)
	return err == nil
}

// RoundTrip encodes v and decodes the result again through the same schema.
func RoundTrip[T any](s Schema[T], v T) (T, error) {
	enc, err := s.Encode(v)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.Decode(enc)
}

// DecodeDocument is Decode for callers holding a document.
func DecodeDocument[T any](s Decoder[T], d *value.Document) (T, error) {
	return s.Decode(d)
}

// EncodeDocument encodes v and requires the result to be a document, as it is
// for object schemas.
func EncodeDocument[T any](s Encoder[T], v T) (*value.Document, error) {
	enc, err := s.Encode(v)
	if err != nil {
		return nil, err
	}
	d, ok := enc.(*value.Document)
	if !ok {
		return nil, NewIssue(CodeInvalidType, "expected document, got "+enc.Kind().String(), nil)
	}
	return d, nil
}
