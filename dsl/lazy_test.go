package dsl_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/dsl"
	"github.com/reoring/bsonskema/value"
)

func TestLazy_ResolvesOnce(t *testing.T) {
	calls := 0
	l := dsl.Lazy(func() bsonskema.Schema[string] {
		calls++
		return dsl.String()
	})
	require.Equal(t, 0, calls)
	for i := 0; i < 3; i++ {
		out, err := l.Decode(value.String("x"))
		require.NoError(t, err)
		require.Equal(t, "x", out)
	}
	require.True(t, l.CanDecode(value.String("y")))
	require.Equal(t, 1, calls)
}

func TestLazy_NilResolverIsUnresolved(t *testing.T) {
	l := dsl.Lazy(func() bsonskema.Schema[string] { return nil })
	require.False(t, l.CanDecode(value.String("x")))
	_, err := l.Decode(value.String("x"))
	require.True(t, bsonskema.HasCode(err, bsonskema.CodeUnresolvedRef))
	require.ErrorIs(t, err, bsonskema.ErrUnresolvedRef)
	_, err = l.Encode("x")
	require.True(t, bsonskema.HasCode(err, bsonskema.CodeUnresolvedRef))
	require.Empty(t, l.ObtainStaticOptions(nil, "", bsonskema.NewVisited()))

	var typedNil *dsl.ScalarSchema[string]
	l2 := dsl.Lazy(func() bsonskema.Schema[string] { return typedNil })
	require.Nil(t, l2.Get())
}

func TestLazy_ReentrantResolveIsUnresolved(t *testing.T) {
	var l *dsl.LazySchema[string]
	var inner error
	l = dsl.Lazy(func() bsonskema.Schema[string] {
		_, inner = l.Decode(value.String("x"))
		return dsl.String()
	})
	out, err := l.Decode(value.String("y"))
	require.NoError(t, err)
	require.Equal(t, "y", out)
	require.True(t, bsonskema.HasCode(inner, bsonskema.CodeUnresolvedRef))

	var self *dsl.LazySchema[string]
	self = dsl.Lazy(func() bsonskema.Schema[string] { return self })
	_, err = self.Decode(value.String("x"))
	require.True(t, bsonskema.HasCode(err, bsonskema.CodeUnresolvedRef))
}

type folder struct {
	Name string
	Subs []folder
}

func TestLazy_ConcurrentFirstUse(t *testing.T) {
	var s *dsl.ObjectSchema[folder]
	s = dsl.Object[folder]().Add(
		dsl.Field[folder, string]("name").Schema(dsl.String()).
			Accessors(func(f folder) string { return f.Name }, func(f *folder, v string) { f.Name = v }).
			Required().MustBuild(),
		dsl.Field[folder, []folder]("subs").
			Lazy(func() bsonskema.Schema[[]folder] { return dsl.ArrayOf[folder](s) }).
			Accessors(func(f folder) []folder { return f.Subs }, func(f *folder, v []folder) { f.Subs = v }).
			MustBuild(),
	).MustBuild()

	doc := value.NewDocument(
		value.E("name", value.String("root")),
		value.E("subs", value.Array{
			value.NewDocument(value.E("name", value.String("a")), value.E("subs", value.Array{})),
			value.NewDocument(value.E("name", value.String("b")), value.E("subs", value.Array{
				value.NewDocument(value.E("name", value.String("c")), value.E("subs", value.Array{})),
			})),
		}),
	)

	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := s.Decode(doc)
			if err != nil {
				errs <- err
				return
			}
			if len(f.Subs) != 2 || f.Subs[1].Subs[0].Name != "c" {
				t.Errorf("unexpected tree %+v", f)
			}
			if _, err := s.Encode(f); err != nil {
				errs <- err
				return
			}
			req := bsonskema.ByPath(bsonskema.Required, bsonskema.StaticOptions[folder](s, bsonskema.Required))
			if len(req) != 1 || len(req["name"]) != 1 {
				t.Errorf("unexpected static options %v", req)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent use: %v", err)
	}
}

func TestRef_SetOnce(t *testing.T) {
	r := dsl.Ref[string]("name")
	_, err := r.Decode(value.String("x"))
	require.True(t, bsonskema.HasCode(err, bsonskema.CodeUnresolvedRef))
	require.Nil(t, r.Get())

	s := dsl.String()
	r.Set(s)
	r.Set(s)
	out, err := r.Decode(value.String("x"))
	require.NoError(t, err)
	require.Equal(t, "x", out)

	other := dsl.Lazy(func() bsonskema.Schema[string] { return s })
	require.PanicsWithError(t, `bsonskema: ref "name" builder: target is already set`, func() { r.Set(other) })
	require.Panics(t, func() { dsl.Ref[string]("other").Set(nil) })
}

func TestRef_FieldThroughUnresolvedRefPrefixesPath(t *testing.T) {
	type box struct{ V string }
	r := dsl.Ref[string]("later")
	s := dsl.Object[box]().Add(
		dsl.Field[box, string]("v").Schema(r).
			Accessors(func(b box) string { return b.V }, func(b *box, v string) { b.V = v }).
			MustBuild(),
	).MustBuild()

	// an unresolved reference cannot decode, so a present key fails and an
	// absent one is reported as required
	_, err := s.Decode(value.NewDocument(value.E("v", value.String("a"))))
	iss, ok := bsonskema.AsIssues(err)
	require.True(t, ok)
	require.Equal(t, "v", iss[0].Path)
	require.Equal(t, bsonskema.CodeUnresolvedRef, iss[0].Code)

	r.Set(dsl.String())
	out, err := s.Decode(value.NewDocument(value.E("v", value.String("a"))))
	require.NoError(t, err)
	require.Equal(t, "a", out.V)
}
