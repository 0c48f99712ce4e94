package value

import (
	"fmt"
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FromBSON converts a value produced by the mongo driver (bson.D, bson.A, bson.M,
// primitive types and Go scalars) into a Value. Go int and uint values are stored
// as Int32 when they fit and Int64 otherwise. bson.M keys are sorted because the
// map carries no order.
func FromBSON(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Boolean(x), nil
	case int32:
		return Int32(x), nil
	case int64:
		return Int64(x), nil
	case int:
		return intValue(int64(x)), nil
	case int8:
		return Int32(x), nil
	case int16:
		return Int32(x), nil
	case uint8:
		return Int32(x), nil
	case uint16:
		return Int32(x), nil
	case uint32:
		return intValue(int64(x)), nil
	case float32:
		return Double(x), nil
	case float64:
		return Double(x), nil
	case primitive.Decimal128:
		return Decimal128(x), nil
	case primitive.ObjectID:
		return ObjectID(x), nil
	case primitive.Null:
		return Null{}, nil
	case primitive.Undefined:
		return Undefined{}, nil
	case bson.A:
		return arrayFromBSON([]any(x))
	case []any:
		return arrayFromBSON(x)
	case bson.D:
		d := &Document{elems: make([]Element, 0, len(x))}
		for _, e := range x {
			ev, err := FromBSON(e.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Key, err)
			}
			d.Set(e.Key, ev)
		}
		return d, nil
	case bson.M:
		return mapFromBSON(x)
	case map[string]any:
		return mapFromBSON(x)
	}
	return nil, fmt.Errorf("value: unsupported bson type %T", v)
}

func intValue(n int64) Value {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return Int32(n)
	}
	return Int64(n)
}

func arrayFromBSON(in []any) (Value, error) {
	out := make(Array, len(in))
	for i, e := range in {
		ev, err := FromBSON(e)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", i, err)
		}
		out[i] = ev
	}
	return out, nil
}

func mapFromBSON(m map[string]any) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d := &Document{elems: make([]Element, 0, len(keys))}
	for _, k := range keys {
		ev, err := FromBSON(m[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		d.elems = append(d.elems, Element{Key: k, Value: ev})
	}
	return d, nil
}

// ToBSON converts v into the driver's native representation so it can be passed
// to bson.Marshal or to collection methods.
func ToBSON(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return primitive.Null{}
	case Undefined:
		return primitive.Undefined{}
	case String:
		return string(x)
	case Boolean:
		return bool(x)
	case Int32:
		return int32(x)
	case Int64:
		return int64(x)
	case Double:
		return float64(x)
	case Decimal128:
		return primitive.Decimal128(x)
	case ObjectID:
		return primitive.ObjectID(x)
	case Array:
		out := make(bson.A, len(x))
		for i, e := range x {
			out[i] = ToBSON(e)
		}
		return out
	case *Document:
		return DocumentToBSON(x)
	}
	panic(fmt.Sprintf("value: unknown value type %T", v))
}

// DocumentToBSON converts d into an ordered bson.D.
func DocumentToBSON(d *Document) bson.D {
	out := make(bson.D, 0, d.Len())
	for _, e := range d.Elements() {
		out = append(out, bson.E{Key: e.Key, Value: ToBSON(e.Value)})
	}
	return out
}
