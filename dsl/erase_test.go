package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/dsl"
	"github.com/reoring/bsonskema/value"
)

func TestErase(t *testing.T) {
	s := dsl.Erase[int32](dsl.Int32())
	require.Same(t, s, dsl.Erase[any](s))

	out, err := s.Decode(value.Int32(4))
	require.NoError(t, err)
	require.Equal(t, int32(4), out)

	enc, err := s.Encode(int32(5))
	require.NoError(t, err)
	require.Equal(t, value.Int32(5), enc)

	enc, err = s.Encode(nil)
	require.NoError(t, err)
	require.Equal(t, value.Int32(0), enc)

	_, err = s.Encode("five")
	require.True(t, bsonskema.HasCode(err, bsonskema.CodeInvalidType))

	_, err = s.Decode(value.String("x"))
	require.True(t, bsonskema.IsDeterministicFailure(err))
	_, err = s.Decode(value.Null{})
	require.True(t, bsonskema.HasCode(err, bsonskema.CodeInvalidType))
	require.Equal(t, dsl.Int32(), s.Orig())
}

func TestErase_ForwardsOptions(t *testing.T) {
	positive := dsl.Scalar[int32]("positive").
		Accept(value.KindInt32).
		Branch(func(v value.Value) (int32, bool) {
			i, ok := v.(value.Int32)
			return int32(i), ok
		}).
		EncodeWith(func(v int32) (value.Value, error) { return value.Int32(v), nil }).
		StaticOption(bsonskema.NewStaticOption(bsonskema.Index, bsonskema.IndexHint{Unique: true})).
		Option(bsonskema.NewOption(bsonskema.Validation, func(_ any, _ string, v int32) (error, bool) {
			if v > 0 {
				return nil, false
			}
			return errEmpty, true
		})).
		MustBuild()
	s := dsl.Erase[int32](positive)

	require.Equal(t, []bsonskema.IndexHint{{Unique: true}}, bsonskema.StaticValues[any](s, bsonskema.Index))
	require.Error(t, bsonskema.CheckInstance[any](s, int32(-1)))
	require.NoError(t, bsonskema.CheckInstance[any](s, int32(3)))
	require.Empty(t, s.ObtainOptions(bsonskema.Validation, nil, "", "not an int"))
}

func TestNullable(t *testing.T) {
	opt := dsl.Optional[string](dsl.String())
	null := dsl.Nullable[string](dsl.String())

	for _, missing := range []value.Value{value.Null{}, value.Undefined{}} {
		require.True(t, opt.CanDecode(missing))
		out, err := opt.Decode(missing)
		require.NoError(t, err)
		require.Nil(t, out)
	}
	out, err := null.Decode(value.String("x"))
	require.NoError(t, err)
	require.Equal(t, "x", *out)

	enc, err := opt.Encode(nil)
	require.NoError(t, err)
	require.Equal(t, value.Undefined{}, enc)
	enc, err = null.Encode(nil)
	require.NoError(t, err)
	require.Equal(t, value.Null{}, enc)

	_, err = null.Decode(value.NewDocument())
	require.True(t, bsonskema.HasCode(err, bsonskema.CodeInvalidType))
	require.False(t, null.CanDecode(value.Array{}))
}
