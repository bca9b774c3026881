package vtr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsRegistered(t *testing.T) {
	r := NewWithBuiltins()
	for _, name := range []string{"uint64", "bytes", "text", "point2d"} {
		assert.NotNil(t, r.Lookup(name), "builtin %q should be registered", name)
	}
	assert.Nil(t, r.Lookup("nope"))
}

func TestRegisterRefusesDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(uint64Type{}))
	err := r.Register(uint64Type{})
	require.Error(t, err)
	var dup *ErrAlreadyRegistered
	assert.ErrorAs(t, err, &dup)
}

func TestRoundTripEncoding(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
		val  any
	}{
		{"uint64", uint64Type{}, uint64(42)},
		{"bytes", bytesType{}, []byte{0x00, 0x02, 0x02}},
		{"text", textType{}, "foo"},
		{"point2d", point2DType{}, Point2D{X: 3, Y: -4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Value{Type: tc.typ, Data: tc.val}
			encoded, err := tc.typ.Encode(v)
			require.NoError(t, err)
			require.Len(t, encoded, len(tc.typ.PhysicalColumns()))

			decoded, err := tc.typ.Decode(NewRowCursor(encoded))
			require.NoError(t, err)
			assert.Equal(t, tc.val, decoded.Data)
		})
	}
}

func TestValueEqual(t *testing.T) {
	a := Value{Type: textType{}, Data: "foo"}
	b := Value{Type: textType{}, Data: "foo"}
	c := Value{Type: textType{}, Data: "bar"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
