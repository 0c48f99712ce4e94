package source

import (
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reoring/bsonskema/value"
)

// Extended JSON wrapper keys.
const (
	keyOID           = "$oid"
	keyNumberDecimal = "$numberDecimal"
	keyNumberLong    = "$numberLong"
	keyNumberInt     = "$numberInt"
	keyNumberDouble  = "$numberDouble"
	keyUndefined     = "$undefined"
)

// unwrap interprets a single-key document holding an Extended JSON wrapper.
// ok is false when d is an ordinary document.
func unwrap(d *value.Document) (v value.Value, ok bool, err error) {
	if d.Len() != 1 {
		return nil, false, nil
	}
	e := d.Elements()[0]
	switch e.Key {
	case keyOID, keyNumberDecimal, keyNumberLong, keyNumberInt, keyNumberDouble:
	case keyUndefined:
		if b, isBool := e.Value.(value.Boolean); isBool && bool(b) {
			return value.Undefined{}, true, nil
		}
		return nil, true, fmt.Errorf("source: %s must be true", keyUndefined)
	default:
		return nil, false, nil
	}
	s, isString := e.Value.(value.String)
	if !isString {
		return nil, true, fmt.Errorf("source: %s payload must be a string, got %s", e.Key, e.Value.Kind())
	}
	v, err = parseWrapped(e.Key, string(s))
	if err != nil {
		return nil, true, fmt.Errorf("source: %s %q: %w", e.Key, string(s), err)
	}
	return v, true, nil
}

func parseWrapped(key, s string) (value.Value, error) {
	switch key {
	case keyOID:
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, err
		}
		return value.ObjectID(oid), nil
	case keyNumberDecimal:
		d, err := primitive.ParseDecimal128(s)
		if err != nil {
			return nil, err
		}
		return value.Decimal128(d), nil
	case keyNumberLong:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return value.Int64(n), nil
	case keyNumberInt:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, err
		}
		return value.Int32(n), nil
	default: // keyNumberDouble
		switch s {
		case "Infinity":
			return value.Double(math.Inf(1)), nil
		case "-Infinity":
			return value.Double(math.Inf(-1)), nil
		case "NaN":
			return value.Double(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return value.Double(f), nil
	}
}

// numberFromText maps a JSON number literal to Int32, Int64 or Double.
func numberFromText(s string) (value.Value, error) {
	if isIntegerLiteral(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			if n >= math.MinInt32 && n <= math.MaxInt32 {
				return value.Int32(n), nil
			}
			return value.Int64(n), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("source: invalid number %q: %w", s, err)
	}
	return value.Double(f), nil
}

func isIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '-' && i == 0 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
