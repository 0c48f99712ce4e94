package dsl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/dsl"
	"github.com/reoring/bsonskema/value"
)

type user struct {
	ID    bsonskema.ID
	Name  string
	Nick  *string
	Email *string
	Age   int32
	Tags  []string
}

var nonEmpty = dsl.Scalar[string]("nonEmpty").
	Accept(value.KindString).
	Branch(func(v value.Value) (string, bool) { return string(v.(value.String)), true }).
	EncodeWith(func(s string) (value.Value, error) { return value.String(s), nil }).
	Option(bsonskema.NewOption(bsonskema.Validation, func(_ any, _ string, s string) (error, bool) {
		if s == "" {
			return errors.New("empty"), true
		}
		return nil, false
	})).
	MustBuild()

// unknownAge lets "unknown" stand for a negative age in both directions.
var unknownAge = dsl.Scalar[int32]("unknownAge").
	When(func(v value.Value) bool { return value.Equal(v, value.String("unknown")) }).
	Branch(func(value.Value) (int32, bool) { return -1, true }).
	CanEncode(func(n int32) bool { return n < 0 }).
	EncodeWith(func(int32) (value.Value, error) { return value.String("unknown"), nil }).
	MustBuild()

func userFields() []dsl.AnyField[user] {
	return []dsl.AnyField[user]{
		dsl.Field[user, bsonskema.ID]("_id").Schema(dsl.LenientID()).
			Accessors(func(u user) bsonskema.ID { return u.ID }, func(u *user, v bsonskema.ID) { u.ID = v }).
			Index(true).MustBuild(),
		dsl.Field[user, string]("name").Schema(dsl.String()).
			Accessors(func(u user) string { return u.Name }, func(u *user, v string) { u.Name = v }).
			AfterDecode(func(s string) (string, error) { return strings.TrimSpace(s), nil }).
			Required().MustBuild(),
		dsl.Field[user, *string]("nick").Schema(dsl.Optional[string](dsl.String())).
			Accessors(func(u user) *string { return u.Nick }, func(u *user, v *string) { u.Nick = v }).
			MustBuild(),
		dsl.Field[user, *string]("email").Schema(dsl.Nullable[string](dsl.String())).
			Accessors(func(u user) *string { return u.Email }, func(u *user, v *string) { u.Email = v }).
			MustBuild(),
		dsl.Field[user, int32]("age").Schema(dsl.Int32()).
			Accessors(func(u user) int32 { return u.Age }, func(u *user, v int32) { u.Age = v }).
			Decoder(unknownAge).Encoder(unknownAge).
			Validate(func(n int32) error {
				if n > 150 {
					return errors.New("too old")
				}
				return nil
			}).MustBuild(),
		dsl.Field[user, []string]("tags").Schema(dsl.ArrayOf[string](nonEmpty)).
			Accessors(func(u user) []string { return u.Tags }, func(u *user, v []string) { u.Tags = v }).
			MustBuild(),
	}
}

func userSchema() *dsl.ObjectSchema[user] {
	return dsl.Object[user]().Named("user").Add(userFields()...).MustBuild()
}

func ptr[T any](v T) *T { return &v }

func TestObject_RoundTripWithOptionalAndArray(t *testing.T) {
	s := userSchema()
	id := bsonskema.NewID()
	in := value.NewDocument(
		value.E("_id", value.ObjectID(id.ObjectID())),
		value.E("name", value.String("  Ada ")),
		value.E("nick", value.String("countess")),
		value.E("email", value.Null{}),
		value.E("age", value.Double(36.4)),
		value.E("tags", value.Array{value.String("math"), value.String("poetry")}),
		value.E("ignored", value.Int32(1)),
	)
	got, err := s.Decode(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := user{ID: id, Name: "Ada", Nick: ptr("countess"), Age: 36, Tags: []string{"math", "poetry"}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(bsonskema.ID{})); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	enc, err := bsonskema.EncodeDocument[user](s, got)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if diff := cmp.Diff([]string{"_id", "name", "nick", "email", "age", "tags"}, enc.Keys()); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	if enc.Lookup("email").Kind() != value.KindNull || enc.Lookup("age") != value.Int32(36) {
		t.Fatalf("unexpected encoding %v %v", enc.Lookup("email"), enc.Lookup("age"))
	}

	back, err := bsonskema.RoundTrip[user](s, got)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if diff := cmp.Diff(got, back, cmp.AllowUnexported(bsonskema.ID{})); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestObject_SparseOmission(t *testing.T) {
	s := userSchema()
	enc, err := bsonskema.EncodeDocument[user](s, user{Name: "x", ID: bsonskema.NewID()})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, ok := enc.Get("nick"); ok {
		t.Fatalf("nil optional must be omitted")
	}
	if v, ok := enc.Get("email"); !ok || v.Kind() != value.KindNull {
		t.Fatalf("nil nullable must encode as null, got %v", v)
	}
	if v, _ := enc.Get("tags"); !value.Equal(v, value.Array{}) {
		t.Fatalf("nil slice encodes to empty array, got %v", v)
	}

	back, err := s.Decode(enc)
	if err != nil {
		t.Fatalf("decode of sparse document: %v", err)
	}
	if back.Nick != nil || back.Email != nil || back.Name != "x" {
		t.Fatalf("unset fields must stay unset, got %+v", back)
	}
}

func TestObject_MissingAndInvalid(t *testing.T) {
	s := userSchema()
	// _id may be missing (lenient id); name may not.
	_, err := s.Decode(value.NewDocument(value.E("age", value.Int32(1)), value.E("tags", value.Array{})))
	iss, _ := bsonskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "name" || iss[0].Code != bsonskema.CodeRequired {
		t.Fatalf("unexpected %v", err)
	}

	_, err = s.Decode(value.NewDocument(value.E("name", value.String("a")), value.E("age", value.Boolean(true))))
	iss, _ = bsonskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "age" || iss[0].Code != bsonskema.CodeInvalidType {
		t.Fatalf("unexpected %v", err)
	}

	_, err = s.Decode(value.String("not a document"))
	if !bsonskema.HasCode(err, bsonskema.CodeInvalidType) || s.CanDecode(value.Array{}) {
		t.Fatalf("only documents decode: %v", err)
	}
}

func TestObject_OverridePrecedence(t *testing.T) {
	s := userSchema()
	doc := value.NewDocument(
		value.E("name", value.String("a")),
		value.E("age", value.String("unknown")),
		value.E("tags", value.Array{}),
	)
	got, err := s.Decode(doc)
	if err != nil || got.Age != -1 {
		t.Fatalf("override decoder should win: %v %v", got.Age, err)
	}
	// Strings the override does not accept fall back to the nested schema.
	doc.Set("age", value.String("41"))
	if got, err = s.Decode(doc); err != nil || got.Age != 41 {
		t.Fatalf("fallback: %v %v", got.Age, err)
	}

	enc, err := bsonskema.EncodeDocument[user](s, user{Name: "a", Age: -5})
	if err != nil || !value.Equal(enc.Lookup("age"), value.String("unknown")) {
		t.Fatalf("override encoder should win: %v %v", enc, err)
	}
	enc, err = bsonskema.EncodeDocument[user](s, user{Name: "a", Age: 5})
	if err != nil || !value.Equal(enc.Lookup("age"), value.Int32(5)) {
		t.Fatalf("fallback encoder: %v %v", enc, err)
	}
}

func TestObject_Hooks(t *testing.T) {
	s := dsl.Object[user]().
		Add(userFields()...).
		AfterDecode(func(u user) (user, error) {
			if u.Name == "root" {
				return u, errors.New("reserved name")
			}
			u.Name = strings.ToUpper(u.Name)
			return u, nil
		}).
		AfterEncode(func(u user, d *value.Document) error {
			d.Set("_v", value.Int32(1))
			return nil
		}).
		MustBuild()

	doc := func(name string) *value.Document {
		return value.NewDocument(value.E("name", value.String(name)), value.E("age", value.Int32(1)), value.E("tags", value.Array{}))
	}
	got, err := s.Decode(doc("ada"))
	if err != nil || got.Name != "ADA" {
		t.Fatalf("decode hook: %v %v", got.Name, err)
	}
	if _, err := s.Decode(doc("root")); !bsonskema.HasCode(err, bsonskema.CodeHookFailed) {
		t.Fatalf("hook failure: %v", err)
	}
	enc, err := bsonskema.EncodeDocument[user](s, got)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	keys := enc.Keys()
	if keys[len(keys)-1] != "_v" {
		t.Fatalf("encode hook output missing: %v", keys)
	}
}

func TestObject_BuildErrors(t *testing.T) {
	name := dsl.Field[user, string]("name").Schema(dsl.String()).
		Accessors(func(u user) string { return u.Name }, func(u *user, v string) { u.Name = v }).
		MustBuild()

	_, err := dsl.Object[user]().Add(name, name).Build()
	var ce *bsonskema.ConfigError
	if !errors.As(err, &ce) || !strings.Contains(ce.Field, `"name"`) {
		t.Fatalf("duplicate field: %v", err)
	}

	_, err = dsl.Object[user]().Constructor(nil).Build()
	if !errors.As(err, &ce) || ce.Field != "constructor" {
		t.Fatalf("constructor: %v", err)
	}

	var inner error
	b := dsl.Object[user]()
	b.Defer(func() { _, inner = b.Build() })
	if _, err := b.Build(); err != nil {
		t.Fatalf("outer build: %v", err)
	}
	if !bsonskema.IsConfigError(inner) {
		t.Fatalf("re-entrant build should be a config error, got %v", inner)
	}
}

func TestField_BuildErrors(t *testing.T) {
	get := func(u user) string { return u.Name }
	set := func(u *user, v string) { u.Name = v }
	cases := map[string]*dsl.FieldBuilder[user, string]{
		"name":   dsl.Field[user, string]("").Schema(dsl.String()).Accessors(get, set),
		"schema": dsl.Field[user, string]("n").Accessors(get, set),
		"getter": dsl.Field[user, string]("n").Schema(dsl.String()).Set(set),
		"setter": dsl.Field[user, string]("n").Schema(dsl.String()).Get(get),
	}
	for want, b := range cases {
		t.Run(want, func(t *testing.T) {
			_, err := b.Build()
			var ce *bsonskema.ConfigError
			if !errors.As(err, &ce) || !strings.Contains(ce.Field, want) {
				t.Fatalf("expected missing %s, got %v", want, err)
			}
		})
	}
}

func TestObject_DeferredFieldRegistration(t *testing.T) {
	b := dsl.Object[user]()
	b.Defer(func() {
		b.Add(dsl.Field[user, string]("name").Schema(dsl.String()).
			Accessors(func(u user) string { return u.Name }, func(u *user, v string) { u.Name = v }).
			MustBuild())
	})
	s := b.MustBuild()
	if diff := cmp.Diff([]string{"name"}, s.FieldNames()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestObject_FieldErrorsPrefixNestedPaths(t *testing.T) {
	s := userSchema()
	_, err := s.Decode(value.NewDocument(
		value.E("name", value.String("a")),
		value.E("age", value.Int32(1)),
		value.E("tags", value.Array{value.String("ok"), value.Int32(2)}),
	))
	iss, _ := bsonskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "tags.1" || iss[0].Code != bsonskema.CodeInvalidType {
		t.Fatalf("unexpected %v", err)
	}
}
