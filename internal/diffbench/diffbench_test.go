package diffbench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	name string
	v    int64
	err  error
}

func (f *fakeRunner) Name() string { return f.name }

func (f *fakeRunner) CallI64(wasmBytes []byte, funcName string, args []int64) (int64, error) {
	return f.v, f.err
}

func TestCompareAgreesReturnsSharedResult(t *testing.T) {
	runners := []Runner{
		&fakeRunner{name: "a", v: 42},
		&fakeRunner{name: "b", v: 42},
	}
	v, err := Compare(runners, nil, "demo_add", []int64{1, 2})
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestCompareDivergentResultsReportsError(t *testing.T) {
	runners := []Runner{
		&fakeRunner{name: "a", v: 42},
		&fakeRunner{name: "b", v: 43},
	}
	_, err := Compare(runners, nil, "demo_add", []int64{1, 2})
	require.Error(t, err)
	var diverge *ErrDivergence
	require.ErrorAs(t, err, &diverge)
	require.Equal(t, "demo_add", diverge.FuncName)
	require.Len(t, diverge.Results, 2)
}

func TestCompareOneRunnerErrorsOtherSucceedsDiverges(t *testing.T) {
	runners := []Runner{
		&fakeRunner{name: "a", v: 42},
		&fakeRunner{name: "b", err: errors.New("trap")},
	}
	_, err := Compare(runners, nil, "demo_add", []int64{1, 2})
	var diverge *ErrDivergence
	require.ErrorAs(t, err, &diverge)
}

func TestCompareBothErrorWithSameFailurePropagatesError(t *testing.T) {
	wantErr := errors.New("trap")
	runners := []Runner{
		&fakeRunner{name: "a", err: wantErr},
		&fakeRunner{name: "b", err: wantErr},
	}
	_, err := Compare(runners, nil, "demo_add", []int64{1, 2})
	require.ErrorIs(t, err, wantErr)
}

func TestCompareNoRunnersErrors(t *testing.T) {
	_, err := Compare(nil, nil, "demo_add", nil)
	require.Error(t, err)
}
