package objmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInt47RoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, Int47Max, Int47Min, 12345, -98765}
	for _, c := range cases {
		v := BoxInt47(c)
		require.False(t, v.IsDouble())
		require.Equal(t, TagInt47, v.Tag())
		require.Equal(t, c, v.UnboxInt47())
	}
}

func TestBoolRoundTrip(t *testing.T) {
	require.True(t, BoxBool(true).UnboxBool())
	require.False(t, BoxBool(false).UnboxBool())
}

func TestNone(t *testing.T) {
	require.True(t, None.IsNone())
	require.False(t, BoxBool(true).IsNone())
}

func TestSmallStrRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "ab", "hello", "日本語x"[:5]} {
		v, ok := BoxSmallStr(s)
		require.True(t, ok)
		require.Equal(t, s, v.UnboxSmallStr())
	}
	_, ok := BoxSmallStr("too-long-string")
	require.False(t, ok)
}

func TestHandleRoundTrip(t *testing.T) {
	h := Handle{Generation: 42, Index: 123456}
	v := BoxHandle(h)
	require.False(t, v.IsDouble())
	require.Equal(t, TagHandle, v.Tag())
	require.Equal(t, h, v.UnboxHandle())
}

func TestDoubleRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1.5, -1.5, math.Pi, math.Inf(1), math.Inf(-1)} {
		v := BoxFloat(f)
		require.True(t, v.IsDouble())
		require.Equal(t, f, v.Float())
	}
}

func TestNaNCanonicalizedAndDisjointFromTags(t *testing.T) {
	weird := math.Float64frombits(0x7ff8deadbeef0000) // a non-canonical positive NaN
	v := BoxFloat(weird)
	require.True(t, v.IsDouble())
	require.True(t, math.IsNaN(v.Float()))

	// The canonical NaN must never be mistaken for a tagged value.
	require.True(t, BoxFloat(math.NaN()).IsDouble())
}

func TestTaggedSpaceNeverCollidesWithFiniteDoubles(t *testing.T) {
	for _, f := range []float64{0, -0.0, 1, -1, 1e300, -1e300} {
		v := BoxFloat(f)
		require.True(t, v.IsDouble(), "finite double %v must not be tagged", f)
	}
}
