package dsl

import (
	"math"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// numeric source kinds shared by every number target.
var numericKinds = []value.Kind{value.KindString, value.KindInt32, value.KindInt64, value.KindDouble, value.KindDecimal128}

var (
	stringSchema = Scalar[string]("string").
			Accept(value.KindString, value.KindBoolean, value.KindInt32, value.KindInt64, value.KindDouble, value.KindDecimal128, value.KindObjectID).
			Branch(decodeString).
			EncodeWith(func(s string) (value.Value, error) { return value.String(s), nil }).
			MustBuild()

	booleanSchema = Scalar[bool]("boolean").
			Accept(value.KindString, value.KindBoolean).
			Branch(decodeBoolean).
			EncodeWith(func(b bool) (value.Value, error) { return value.Boolean(b), nil }).
			MustBuild()

	int32Schema = Scalar[int32]("int32").
			Accept(numericKinds...).
			Branch(decodeInt32).
			EncodeWith(func(n int32) (value.Value, error) { return value.Int32(n), nil }).
			MustBuild()

	int64Schema = Scalar[int64]("int64").
			Accept(numericKinds...).
			Branch(decodeInt64).
			EncodeWith(func(n int64) (value.Value, error) { return value.Int64(n), nil }).
			MustBuild()

	doubleSchema = Scalar[float64]("double").
			Accept(numericKinds...).
			Branch(decodeDouble).
			EncodeWith(func(f float64) (value.Value, error) { return value.Double(f), nil }).
			MustBuild()

	decimal128Schema = Scalar[primitive.Decimal128]("decimal128").
				Accept(numericKinds...).
				Branch(decodeDecimal128).
				EncodeWith(func(d primitive.Decimal128) (value.Value, error) { return value.Decimal128(d), nil }).
				MustBuild()

	bigDecimalSchema = Scalar[decimal.Decimal]("bigdecimal").
				Accept(numericKinds...).
				Branch(decodeBigDecimal).
				EncodeWith(encodeBigDecimal).
				MustBuild()

	objectIDSchema = Scalar[primitive.ObjectID]("objectId").
			Accept(value.KindString, value.KindObjectID).
			Branch(decodeObjectID).
			EncodeWith(func(o primitive.ObjectID) (value.Value, error) { return value.ObjectID(o), nil }).
			MustBuild()

	idSchema = Scalar[bsonskema.ID]("id").
			Accept(value.KindString, value.KindObjectID).
			Branch(decodeID).
			EncodeWith(encodeID).
			MustBuild()

	lenientIDSchema = Scalar[bsonskema.ID]("id(lenient)").
			Accept(value.KindString, value.KindObjectID, value.KindNull, value.KindUndefined).
			Branch(decodeID).
			Branch(generateID).
			EncodeWith(encodeID).
			MustBuild()

	uuidSchema = Scalar[uuid.UUID]("uuid").
			Accept(value.KindString).
			Branch(decodeUUID).
			EncodeWith(func(u uuid.UUID) (value.Value, error) { return value.String(u.String()), nil }).
			MustBuild()
)

// String accepts every scalar kind except null/undefined and renders it as text.
func String() *ScalarSchema[string] { return stringSchema }

// Boolean accepts booleans and the strings "true"/"false".
func Boolean() *ScalarSchema[bool] { return booleanSchema }

// Int32 accepts numbers and integer strings. Int64 values are narrowed with
// two's complement wrapping; doubles and decimals are rounded half away from zero
// and must fit.
func Int32() *ScalarSchema[int32] { return int32Schema }

// Int64 accepts numbers and integer strings. Doubles and decimals are rounded
// half away from zero and must fit.
func Int64() *ScalarSchema[int64] { return int64Schema }

// Double accepts numbers and numeric strings.
func Double() *ScalarSchema[float64] { return doubleSchema }

// Decimal128 accepts numbers and numeric strings as IEEE 754-2008 decimals.
func Decimal128() *ScalarSchema[primitive.Decimal128] { return decimal128Schema }

// BigDecimal accepts numbers and numeric strings as arbitrary-precision
// decimals. Values encode to Decimal128 and fail to encode when they need more
// than 34 significant digits.
func BigDecimal() *ScalarSchema[decimal.Decimal] { return bigDecimalSchema }

// ObjectID accepts object ids and their 24 character hex form.
func ObjectID() *ScalarSchema[primitive.ObjectID] { return objectIDSchema }

// ID accepts object ids and valid id strings.
func ID() *ScalarSchema[bsonskema.ID] { return idSchema }

// LenientID is ID that also accepts null and undefined, decoding them to a
// freshly generated identifier.
func LenientID() *ScalarSchema[bsonskema.ID] { return lenientIDSchema }

// UUID accepts the textual forms understood by uuid.Parse and encodes the
// canonical hyphenated form.
func UUID() *ScalarSchema[uuid.UUID] { return uuidSchema }

func decodeString(v value.Value) (string, bool) {
	switch x := v.(type) {
	case value.String:
		return string(x), true
	case value.Boolean:
		return strconv.FormatBool(bool(x)), true
	case value.Int32:
		return strconv.FormatInt(int64(x), 10), true
	case value.Int64:
		return strconv.FormatInt(int64(x), 10), true
	case value.Double:
		return formatFloat(float64(x)), true
	case value.Decimal128:
		return x.String(), true
	case value.ObjectID:
		return x.Hex(), true
	}
	return bsonskema.Skip[string]()
}

func decodeBoolean(v value.Value) (bool, bool) {
	switch x := v.(type) {
	case value.Boolean:
		return bool(x), true
	case value.String:
		switch x {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return bsonskema.Skip[bool]()
}

func decodeInt32(v value.Value) (int32, bool) {
	switch x := v.(type) {
	case value.Int32:
		return int32(x), true
	case value.Int64:
		return int32(x), true
	case value.String:
		n, err := strconv.ParseInt(string(x), 10, 32)
		if err != nil {
			break
		}
		return int32(n), true
	case value.Double:
		if r, ok := roundFloat(float64(x)); ok && r >= math.MinInt32 && r <= math.MaxInt32 {
			return int32(r), true
		}
	case value.Decimal128:
		if n, ok := roundDecimal128(x); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n), true
		}
	}
	return bsonskema.Skip[int32]()
}

func decodeInt64(v value.Value) (int64, bool) {
	switch x := v.(type) {
	case value.Int32:
		return int64(x), true
	case value.Int64:
		return int64(x), true
	case value.String:
		n, err := strconv.ParseInt(string(x), 10, 64)
		if err != nil {
			break
		}
		return n, true
	case value.Double:
		// float64(math.MaxInt64) rounds up to 2^63, which is out of range.
		if r, ok := roundFloat(float64(x)); ok && r >= math.MinInt64 && r < math.MaxInt64 {
			return int64(r), true
		}
	case value.Decimal128:
		return roundDecimal128(x)
	}
	return bsonskema.Skip[int64]()
}

func decodeDouble(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case value.Double:
		return float64(x), true
	case value.Int32:
		return float64(x), true
	case value.Int64:
		return float64(x), true
	case value.String:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			break
		}
		return f, true
	case value.Decimal128:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			break
		}
		return f, true
	}
	return bsonskema.Skip[float64]()
}

func decodeDecimal128(v value.Value) (primitive.Decimal128, bool) {
	switch x := v.(type) {
	case value.Decimal128:
		return primitive.Decimal128(x), true
	case value.Int32:
		return decimal128FromInt(int64(x))
	case value.Int64:
		return decimal128FromInt(int64(x))
	case value.Double:
		return decimal128FromFloat(float64(x))
	case value.String:
		d, err := primitive.ParseDecimal128(string(x))
		if err != nil {
			break
		}
		return d, true
	}
	return bsonskema.Skip[primitive.Decimal128]()
}

func decodeBigDecimal(v value.Value) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case value.Decimal128:
		return decimalFromDecimal128(primitive.Decimal128(x))
	case value.Int32:
		return decimal.NewFromInt32(int32(x)), true
	case value.Int64:
		return decimal.NewFromInt(int64(x)), true
	case value.Double:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			break
		}
		return decimal.NewFromFloat(f), true
	case value.String:
		d, err := decimal.NewFromString(string(x))
		if err != nil {
			break
		}
		return d, true
	}
	return bsonskema.Skip[decimal.Decimal]()
}

func encodeBigDecimal(d decimal.Decimal) (value.Value, error) {
	out, ok := primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
	if !ok {
		return nil, bsonskema.NewIssue(bsonskema.CodeEncodeFailed, "decimal "+d.String()+" does not fit decimal128", nil)
	}
	return value.Decimal128(out), nil
}

func decodeObjectID(v value.Value) (primitive.ObjectID, bool) {
	switch x := v.(type) {
	case value.ObjectID:
		return primitive.ObjectID(x), true
	case value.String:
		oid, err := primitive.ObjectIDFromHex(string(x))
		if err != nil {
			break
		}
		return oid, true
	}
	return bsonskema.Skip[primitive.ObjectID]()
}

func decodeID(v value.Value) (bsonskema.ID, bool) {
	switch x := v.(type) {
	case value.ObjectID:
		return bsonskema.IDFromObjectID(primitive.ObjectID(x)), true
	case value.String:
		id, err := bsonskema.ParseID(string(x))
		if err != nil {
			break
		}
		return id, true
	}
	return bsonskema.Skip[bsonskema.ID]()
}

func generateID(v value.Value) (bsonskema.ID, bool) {
	switch v.(type) {
	case value.Null, value.Undefined:
		return bsonskema.NewID(), true
	}
	return bsonskema.Skip[bsonskema.ID]()
}

func encodeID(id bsonskema.ID) (value.Value, error) { return value.ObjectID(id.ObjectID()), nil }

func decodeUUID(v value.Value) (uuid.UUID, bool) {
	s, ok := v.(value.String)
	if !ok {
		return bsonskema.Skip[uuid.UUID]()
	}
	u, err := uuid.Parse(string(s))
	if err != nil {
		return bsonskema.Skip[uuid.UUID]()
	}
	return u, true
}

// formatFloat renders a float64 using the shortest representation.
func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// roundFloat rounds half away from zero; non-finite values do not round.
func roundFloat(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.Round(f), true
}

// roundDecimal128 rounds half away from zero to an int64.
func roundDecimal128(d value.Decimal128) (int64, bool) {
	dd, ok := decimalFromDecimal128(primitive.Decimal128(d))
	if !ok {
		return 0, false
	}
	bi := dd.Round(0).BigInt()
	if !bi.IsInt64() {
		return 0, false
	}
	return bi.Int64(), true
}

func decimalFromDecimal128(d primitive.Decimal128) (decimal.Decimal, bool) {
	bi, exp, err := d.BigInt()
	if err != nil {
		// NaN and infinities have no finite representation.
		return decimal.Decimal{}, false
	}
	return decimal.NewFromBigInt(bi, int32(exp)), true
}

func decimal128FromInt(n int64) (primitive.Decimal128, bool) {
	return primitive.ParseDecimal128FromBigInt(big.NewInt(n), 0)
}

func decimal128FromFloat(f float64) (primitive.Decimal128, bool) {
	switch {
	case math.IsNaN(f):
		return parseDecimal128("NaN")
	case math.IsInf(f, 1):
		return parseDecimal128("Infinity")
	case math.IsInf(f, -1):
		return parseDecimal128("-Infinity")
	}
	d := decimal.NewFromFloat(f)
	return primitive.ParseDecimal128FromBigInt(d.Coefficient(), int(d.Exponent()))
}

func parseDecimal128(s string) (primitive.Decimal128, bool) {
	d, err := primitive.ParseDecimal128(s)
	if err != nil {
		return primitive.Decimal128{}, false
	}
	return d, true
}
