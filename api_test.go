package bsonskema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/dsl"
	"github.com/reoring/bsonskema/value"
)

type point struct{ X, Y int32 }

func pointSchema() *dsl.ObjectSchema[point] {
	return dsl.Object[point]().Add(
		dsl.Field[point, int32]("x").Schema(dsl.Int32()).
			Accessors(func(p point) int32 { return p.X }, func(p *point, v int32) { p.X = v }).MustBuild(),
		dsl.Field[point, int32]("y").Schema(dsl.Int32()).
			Accessors(func(p point) int32 { return p.Y }, func(p *point, v int32) { p.Y = v }).MustBuild(),
	).MustBuild()
}

func TestSafeDecodeAndIs(t *testing.T) {
	s := dsl.Int32()
	v, ok := bsonskema.SafeDecode[int32](s, value.String("12"))
	require.True(t, ok)
	require.Equal(t, int32(12), v)

	_, ok = bsonskema.SafeDecode[int32](s, value.String("twelve"))
	require.False(t, ok)

	require.True(t, bsonskema.Is[int32](s, value.Double(3)))
	require.False(t, bsonskema.Is[int32](s, value.Double(3.5e12)))
	require.False(t, bsonskema.Is[int32](s, value.Null{}))
}

func TestMustDecode(t *testing.T) {
	require.Equal(t, "x", bsonskema.MustDecode[string](dsl.String(), value.String("x")))
	require.Panics(t, func() { bsonskema.MustDecode[string](dsl.String(), value.Null{}) })
}

func TestDocumentHelpers(t *testing.T) {
	s := pointSchema()
	doc, err := bsonskema.EncodeDocument[point](s, point{X: 1, Y: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, doc.Keys())

	p, err := bsonskema.DecodeDocument[point](s, doc)
	require.NoError(t, err)
	require.Equal(t, point{X: 1, Y: 2}, p)

	p, err = bsonskema.RoundTrip[point](s, point{X: -4, Y: 9})
	require.NoError(t, err)
	require.Equal(t, point{X: -4, Y: 9}, p)

	_, err = bsonskema.EncodeDocument[string](dsl.String(), "scalar")
	require.True(t, bsonskema.HasCode(err, bsonskema.CodeInvalidType))
}
