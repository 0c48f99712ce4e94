package value

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Equal reports whether a and b have the same kind and the same contents.
// Documents compare element by element in order. Doubles compare by value except
// that NaN equals NaN, so that NaN can serve as an enum key.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Double:
		y := b.(Double)
		if math.IsNaN(float64(x)) {
			return math.IsNaN(float64(y))
		}
		return x == y
	case Decimal128:
		y := b.(Decimal128)
		xh, xl := primitive.Decimal128(x).GetBytes()
		yh, yl := primitive.Decimal128(y).GetBytes()
		return xh == yh && xl == yl
	case Array:
		y := b.(Array)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Document:
		y := b.(*Document)
		if x.Len() != y.Len() {
			return false
		}
		if x == nil || y == nil {
			return true
		}
		for i := range x.elems {
			if x.elems[i].Key != y.elems[i].Key || !Equal(x.elems[i].Value, y.elems[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// IsMissing reports whether v stands for an absent value (nil, Null or Undefined).
func IsMissing(v Value) bool {
	if v == nil {
		return true
	}
	switch v.Kind() {
	case KindNull, KindUndefined:
		return true
	}
	return false
}
