package objmodel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestC3LinearizationDiamond exercises the classic diamond:
// O -> (A, B) -> (C) where C(A, B), A(O), B(O).
func TestC3LinearizationDiamond(t *testing.T) {
	r := NewRegistry()
	o, err := r.RegisterClass("O", nil, nil)
	require.NoError(t, err)
	a, err := r.RegisterClass("A", []*Class{o}, nil)
	require.NoError(t, err)
	b, err := r.RegisterClass("B", []*Class{o}, nil)
	require.NoError(t, err)
	c, err := r.RegisterClass("C", []*Class{a, b}, nil)
	require.NoError(t, err)

	names := func(cs []*Class) []string {
		out := make([]string, len(cs))
		for i, cl := range cs {
			out[i] = cl.Name
		}
		return out
	}
	require.Equal(t, []string{"A", "B", "O"}, names(c.MRO))
}

func TestC3LinearizationInconsistentOrder(t *testing.T) {
	r := NewRegistry()
	o, _ := r.RegisterClass("O", nil, nil)
	a, _ := r.RegisterClass("A", []*Class{o}, nil)
	b, _ := r.RegisterClass("B", []*Class{o}, nil)
	// X(A, B) and Y(B, A) both try to resolve before a shared class Z(X, Y)
	// that reverses the order -> inconsistent.
	x, _ := r.RegisterClass("X", []*Class{a, b}, nil)
	y, _ := r.RegisterClass("Y", []*Class{b, a}, nil)
	_, err := r.RegisterClass("Z", []*Class{x, y}, nil)
	require.Error(t, err)
}

func TestAttrOffsetAndVersionBump(t *testing.T) {
	r := NewRegistry()
	c, err := r.RegisterClass("Point", nil, []Attr{{Name: "x", Offset: 0}, {Name: "y", Offset: 8}})
	require.NoError(t, err)

	require.Equal(t, 0, c.AttrOffset("x"))
	require.Equal(t, 8, c.AttrOffset("y"))
	require.Equal(t, -1, c.AttrOffset("z"))

	before := c.Version()
	c.BumpVersion()
	require.Equal(t, before+1, c.Version())
}
