package schemafile

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/codec"
	"github.com/reoring/bsonskema/dsl"
	"github.com/reoring/bsonskema/value"
)

// Registry holds the compiled record schemas of a definition file. Record
// types may refer to themselves and to each other in any order.
type Registry struct {
	order   []string
	refs    map[string]*dsl.RefSchema[Record]
	schemas map[string]*dsl.ObjectSchema[Record]
}

// Names returns the type names in declaration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// Schema returns the compiled schema of a type.
func (r *Registry) Schema(name string) (*dsl.ObjectSchema[Record], bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Diag carries non-fatal warnings produced while compiling.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool  { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(format string, args ...any) {
	d.ws = append(d.ws, fmt.Sprintf(format, args...))
}

// Compile builds a schema per type. Every type gets a reference cell first, so
// field types resolve regardless of declaration order and cycles are legal.
func Compile(f *File) (*Registry, Diag, error) {
	reg := &Registry{
		refs:    map[string]*dsl.RefSchema[Record]{},
		schemas: map[string]*dsl.ObjectSchema[Record]{},
	}
	d := &simpleDiag{}
	for _, td := range f.Types {
		if _, dup := reg.refs[td.Name]; dup {
			return nil, d, fmt.Errorf("schemafile: type %q declared twice", td.Name)
		}
		if _, builtin := builtins[td.Name]; builtin {
			return nil, d, fmt.Errorf("schemafile: type %q shadows a builtin type", td.Name)
		}
		reg.refs[td.Name] = dsl.Ref[Record](td.Name)
		reg.order = append(reg.order, td.Name)
	}
	for _, td := range f.Types {
		ob := dsl.Object[Record]().Named(td.Name).Constructor(func() Record { return Record{} })
		for _, fd := range td.Fields {
			field, err := reg.compileField(td.Name, fd, d)
			if err != nil {
				return nil, d, err
			}
			ob.Add(field)
		}
		s, err := ob.Build()
		if err != nil {
			return nil, d, fmt.Errorf("schemafile: %w", err)
		}
		reg.refs[td.Name].Set(s)
		reg.schemas[td.Name] = s
	}
	return reg, d, nil
}

var builtins = map[string]func(FieldDef) *dsl.AnySchema{
	"string":     func(FieldDef) *dsl.AnySchema { return dsl.Erase[string](dsl.String()) },
	"bool":       func(FieldDef) *dsl.AnySchema { return dsl.Erase[bool](dsl.Boolean()) },
	"int32":      func(FieldDef) *dsl.AnySchema { return dsl.Erase[int32](dsl.Int32()) },
	"int64":      func(FieldDef) *dsl.AnySchema { return dsl.Erase[int64](dsl.Int64()) },
	"double":     func(FieldDef) *dsl.AnySchema { return dsl.Erase[float64](dsl.Double()) },
	"decimal":    func(FieldDef) *dsl.AnySchema { return dsl.Erase[primitive.Decimal128](dsl.Decimal128()) },
	"bigdecimal": func(FieldDef) *dsl.AnySchema { return dsl.Erase[decimal.Decimal](dsl.BigDecimal()) },
	"objectid":   func(FieldDef) *dsl.AnySchema { return dsl.Erase[primitive.ObjectID](dsl.ObjectID()) },
	"uuid":       func(FieldDef) *dsl.AnySchema { return dsl.Erase[uuid.UUID](dsl.UUID()) },
	"time":       func(FieldDef) *dsl.AnySchema { return dsl.Erase[time.Time](codec.RFC3339()) },
	"id": func(fd FieldDef) *dsl.AnySchema {
		if fd.Generate {
			return dsl.Erase[bsonskema.ID](dsl.LenientID())
		}
		return dsl.Erase[bsonskema.ID](dsl.ID())
	},
}

func (r *Registry) compileField(typeName string, fd FieldDef, d *simpleDiag) (*dsl.FieldDefinition[Record, any], error) {
	where := fmt.Sprintf("schemafile: type %q field %q", typeName, fd.Name)
	member, err := r.memberSchema(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	if fd.Array {
		member = dsl.Erase[[]any](dsl.ArrayOf[any](member))
	}
	name := fd.Name
	fb := dsl.Field[Record, any](name).Schema(member).Accessors(
		func(rec Record) any { return rec[name] },
		func(rec *Record, v any) {
			if v == nil {
				delete(*rec, name)
				return
			}
			(*rec)[name] = v
		},
	)
	if fd.Optional {
		fb.Decoder(absentDecoder{}).Encoder(absentEncoder{})
		if fd.Required {
			d.warnf("%s: required and optional are both set; required only applies to stored documents", where)
		}
	}
	if fd.Required {
		fb.Required()
	}
	switch {
	case fd.Unique:
		fb.Index(true)
	case fd.Index:
		fb.Index(false)
	}
	checks, err := validators(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	for _, c := range checks {
		if fd.Array {
			fb.Validate(eachElement(c))
		} else {
			fb.Validate(skipAbsent(c))
		}
	}
	return fb.Build()
}

func (r *Registry) memberSchema(fd FieldDef) (*dsl.AnySchema, error) {
	if len(fd.Enum) > 0 {
		if fd.Type != "string" && fd.Type != "" {
			return nil, fmt.Errorf("enum requires type string, got %q", fd.Type)
		}
		e, err := dsl.Enum[string](fd.Name).Strings(fd.Enum, func(s string) string { return s }).Build()
		if err != nil {
			return nil, err
		}
		return dsl.Erase[string](e), nil
	}
	if mk, ok := builtins[fd.Type]; ok {
		return mk(fd), nil
	}
	if ref, ok := r.refs[fd.Type]; ok {
		return dsl.Erase[Record](ref), nil
	}
	if fd.Type == "" {
		return nil, fmt.Errorf("type is required")
	}
	return nil, fmt.Errorf("unknown type %q (known: %v)", fd.Type, r.knownTypes())
}

func (r *Registry) knownTypes() []string {
	out := make([]string, 0, len(builtins)+len(r.order))
	for k := range builtins {
		out = append(out, k)
	}
	sort.Strings(out)
	return append(out, r.order...)
}

// absentDecoder lets an optional field decode a missing or null value to nil.
type absentDecoder struct{}

func (absentDecoder) CanDecode(v value.Value) bool    { return value.IsMissing(v) }
func (absentDecoder) Decode(value.Value) (any, error) { return nil, nil }

// absentEncoder omits an unset optional field.
type absentEncoder struct{}

func (absentEncoder) CanEncode(v any) bool              { return v == nil }
func (absentEncoder) Encode(any) (value.Value, error) { return value.Undefined{}, nil }

var (
	_ bsonskema.Coercer[any]            = absentDecoder{}
	_ bsonskema.ConditionalEncoder[any] = absentEncoder{}
)

func validators(fd FieldDef) ([]func(any) error, error) {
	var out []func(any) error
	if fd.Pattern != "" {
		re, err := regexp.Compile(fd.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern: %w", err)
		}
		out = append(out, func(v any) error {
			s, ok := v.(string)
			if ok && !re.MatchString(s) {
				return fmt.Errorf("%q does not match %s", s, fd.Pattern)
			}
			return nil
		})
	}
	if fd.Min != nil || fd.Max != nil {
		switch fd.Type {
		case "int32", "int64", "double":
		default:
			return nil, fmt.Errorf("min/max require a numeric type, got %q", fd.Type)
		}
		lo, hi := fd.Min, fd.Max
		out = append(out, func(v any) error {
			f, ok := asFloat(v)
			if !ok {
				return nil
			}
			if lo != nil && f < *lo {
				return fmt.Errorf("%v is less than %v", v, *lo)
			}
			if hi != nil && f > *hi {
				return fmt.Errorf("%v is greater than %v", v, *hi)
			}
			return nil
		})
	}
	return out, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func skipAbsent(c func(any) error) func(any) error {
	return func(v any) error {
		if v == nil {
			return nil
		}
		return c(v)
	}
}

func eachElement(c func(any) error) func(any) error {
	return func(v any) error {
		list, _ := v.([]any)
		for i, e := range list {
			if err := c(e); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	}
}
