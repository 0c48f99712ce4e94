// Package value defines the dynamic document model that schemas decode from and
// encode to. It mirrors the BSON value kinds a document database exchanges with
// its clients.
package value

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindBoolean
	KindInt32
	KindInt64
	KindDouble
	KindDecimal128
	KindObjectID
	KindNull
	KindUndefined
	KindArray
	KindDocument
)

var kindNames = [...]string{
	KindString:     "string",
	KindBoolean:    "boolean",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindDouble:     "double",
	KindDecimal128: "decimal128",
	KindObjectID:   "objectId",
	KindNull:       "null",
	KindUndefined:  "undefined",
	KindArray:      "array",
	KindDocument:   "document",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a dynamic document value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	String     string
	Boolean    bool
	Int32      int32
	Int64      int64
	Double     float64
	Decimal128 primitive.Decimal128
	ObjectID   primitive.ObjectID
	Null       struct{}
	Undefined  struct{}
	Array      []Value
)

func (String) Kind() Kind     { return KindString }
func (Boolean) Kind() Kind    { return KindBoolean }
func (Int32) Kind() Kind      { return KindInt32 }
func (Int64) Kind() Kind      { return KindInt64 }
func (Double) Kind() Kind     { return KindDouble }
func (Decimal128) Kind() Kind { return KindDecimal128 }
func (ObjectID) Kind() Kind   { return KindObjectID }
func (Null) Kind() Kind       { return KindNull }
func (Undefined) Kind() Kind  { return KindUndefined }
func (Array) Kind() Kind      { return KindArray }

func (String) isValue()     {}
func (Boolean) isValue()    {}
func (Int32) isValue()      {}
func (Int64) isValue()      {}
func (Double) isValue()     {}
func (Decimal128) isValue() {}
func (ObjectID) isValue()   {}
func (Null) isValue()       {}
func (Undefined) isValue()  {}
func (Array) isValue()      {}

// String renders the decimal in its canonical textual form.
func (d Decimal128) String() string { return primitive.Decimal128(d).String() }

// Hex returns the 24 character hex form of the object id.
func (o ObjectID) Hex() string { return primitive.ObjectID(o).Hex() }

// Element is a single key/value pair of a Document.
type Element struct {
	Key   string
	Value Value
}

// Document is an ordered mapping from names to values. Encoders build documents
// through Set; once handed to a caller a document should be treated as immutable.
type Document struct {
	elems []Element
}

// NewDocument returns a document holding elems in order. A repeated key keeps its
// first position and its last value.
func NewDocument(elems ...Element) *Document {
	d := &Document{elems: make([]Element, 0, len(elems))}
	for _, e := range elems {
		d.Set(e.Key, e.Value)
	}
	return d
}

// E is shorthand for an Element literal.
func E(key string, v Value) Element { return Element{Key: key, Value: v} }

func (*Document) Kind() Kind { return KindDocument }
func (*Document) isValue()   {}

// Len returns the number of elements.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.elems)
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	for _, e := range d.elems {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Lookup is like Get but returns Undefined for a missing key.
func (d *Document) Lookup(key string) Value {
	if v, ok := d.Get(key); ok {
		return v
	}
	return Undefined{}
}

// Set replaces the value under key, or appends it when the key is new.
func (d *Document) Set(key string, v Value) {
	for i := range d.elems {
		if d.elems[i].Key == key {
			d.elems[i].Value = v
			return
		}
	}
	d.elems = append(d.elems, Element{Key: key, Value: v})
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	for i := range d.elems {
		if d.elems[i].Key == key {
			d.elems = append(d.elems[:i], d.elems[i+1:]...)
			return true
		}
	}
	return false
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.elems))
	for i, e := range d.elems {
		out[i] = e.Key
	}
	return out
}

// Elements returns a copy of the elements in document order.
func (d *Document) Elements() []Element {
	if d == nil {
		return nil
	}
	return append([]Element(nil), d.elems...)
}
