package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adpena/molt/internal/objmodel"
)

func sig() *Signature {
	return &Signature{
		Params: []Param{
			{Name: "self", PosOnly: true},
			{Name: "x"},
			{Name: "y", HasDefault: true, Default: objmodel.BoxInt47(9)},
			{Name: "verbose", KWOnly: true, HasDefault: true, Default: objmodel.False},
		},
	}
}

func TestBindPositionalAndDefaults(t *testing.T) {
	args := []objmodel.Value{objmodel.BoxInt47(1), objmodel.BoxInt47(2)}
	bound, err := Bind(sig(), args, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), bound.Locals[0].UnboxInt47())
	require.Equal(t, int64(2), bound.Locals[1].UnboxInt47())
	require.Equal(t, int64(9), bound.Locals[2].UnboxInt47())
	require.Equal(t, objmodel.False, bound.Locals[3])
}

func TestBindKeywordOverridesDefault(t *testing.T) {
	args := []objmodel.Value{objmodel.BoxInt47(1), objmodel.BoxInt47(2)}
	kwargs := map[string]objmodel.Value{"y": objmodel.BoxInt47(42), "verbose": objmodel.True}
	bound, err := Bind(sig(), args, kwargs)
	require.NoError(t, err)
	require.Equal(t, int64(42), bound.Locals[2].UnboxInt47())
	require.Equal(t, objmodel.True, bound.Locals[3])
}

func TestBindPositionalOnlyRejectsKeyword(t *testing.T) {
	args := []objmodel.Value{objmodel.BoxInt47(1), objmodel.BoxInt47(2)}
	kwargs := map[string]objmodel.Value{"self": objmodel.BoxInt47(7)}
	_, err := Bind(sig(), args, kwargs)
	require.ErrorIs(t, err, ErrPositionalOnly)
}

func TestBindDuplicateArgument(t *testing.T) {
	args := []objmodel.Value{objmodel.BoxInt47(1), objmodel.BoxInt47(2)}
	kwargs := map[string]objmodel.Value{"x": objmodel.BoxInt47(99)}
	_, err := Bind(sig(), args, kwargs)
	require.ErrorIs(t, err, ErrDuplicateArgument)
}

func TestBindMissingRequiredArgument(t *testing.T) {
	_, err := Bind(sig(), []objmodel.Value{objmodel.BoxInt47(1)}, nil)
	require.ErrorIs(t, err, ErrMissingArgument)
}

func TestBindUnexpectedKeywordWithoutVarKwargs(t *testing.T) {
	args := []objmodel.Value{objmodel.BoxInt47(1), objmodel.BoxInt47(2)}
	kwargs := map[string]objmodel.Value{"bogus": objmodel.BoxInt47(1)}
	_, err := Bind(sig(), args, kwargs)
	require.ErrorIs(t, err, ErrUnexpectedKeyword)
}

func TestBindUnexpectedKeywordCollectedByVarKwargs(t *testing.T) {
	s := sig()
	s.VarKwargsName = "kwargs"
	args := []objmodel.Value{objmodel.BoxInt47(1), objmodel.BoxInt47(2)}
	kwargs := map[string]objmodel.Value{"bogus": objmodel.BoxInt47(5)}
	bound, err := Bind(s, args, kwargs)
	require.NoError(t, err)
	require.Equal(t, int64(5), bound.KWArgs["bogus"].UnboxInt47())
}

func TestBindTooManyPositionalWithoutVarArgs(t *testing.T) {
	args := []objmodel.Value{objmodel.BoxInt47(1), objmodel.BoxInt47(2), objmodel.BoxInt47(3), objmodel.BoxInt47(4), objmodel.BoxInt47(5)}
	_, err := Bind(sig(), args, nil)
	require.ErrorIs(t, err, ErrTooManyPositional)
}

func TestBindOverflowPositionalCollectedByVarArgs(t *testing.T) {
	s := sig()
	s.VarArgsName = "rest"
	args := []objmodel.Value{objmodel.BoxInt47(1), objmodel.BoxInt47(2), objmodel.BoxInt47(3), objmodel.BoxInt47(4)}
	bound, err := Bind(s, args, nil)
	require.NoError(t, err)
	require.Len(t, bound.VarArgs, 1)
	require.Equal(t, int64(4), bound.VarArgs[0].UnboxInt47())
}

func TestSitePopulateThenLookupHit(t *testing.T) {
	s := NewSite("call@42")
	require.False(t, s.Monomorphic())
	s.Populate(CalleeKey{TypeID: 7, ClassVersion: 1}, 100)
	require.True(t, s.Monomorphic())
	fn, ok := s.Lookup()
	require.True(t, ok)
	require.Equal(t, uint32(100), fn)
}

func TestSiteMissTransitionsToMegamorphic(t *testing.T) {
	s := NewSite("call@42")
	s.Populate(CalleeKey{TypeID: 7, ClassVersion: 1}, 100)
	s.RecordMiss()
	s.RecordMiss()
	require.False(t, s.Monomorphic())
	_, ok := s.Lookup()
	require.False(t, ok)
}

func TestSiteMegamorphicIgnoresRepopulate(t *testing.T) {
	s := NewSite("call@42")
	s.Populate(CalleeKey{TypeID: 7, ClassVersion: 1}, 100)
	s.RecordMiss()
	s.RecordMiss()
	s.Populate(CalleeKey{TypeID: 9, ClassVersion: 2}, 200)
	require.False(t, s.Monomorphic())
}

func TestSiteResetAllowsRepopulate(t *testing.T) {
	s := NewSite("call@42")
	s.Populate(CalleeKey{TypeID: 7, ClassVersion: 1}, 100)
	s.RecordMiss()
	s.RecordMiss()
	s.Reset()
	s.Populate(CalleeKey{TypeID: 9, ClassVersion: 2}, 200)
	require.True(t, s.Monomorphic())
	fn, ok := s.Lookup()
	require.True(t, ok)
	require.Equal(t, uint32(200), fn)
}
