package feedback

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adpena/molt/internal/guard"
)

func TestSnapshotThenWriteIsDeterministic(t *testing.T) {
	counters := guard.NewCounters()
	counters.Bump("call@9", guard.ReasonCalleeMismatch)
	counters.Bump("call@9", guard.ReasonCalleeMismatch)
	counters.Bump("call@9", guard.ReasonTypeMismatch)
	counters.Bump("attr@3", guard.ReasonLayoutMismatch)

	a := Snapshot(counters)
	var buf1, buf2 bytes.Buffer
	require.NoError(t, Write(&buf1, a))
	require.NoError(t, Write(&buf2, a))
	require.Equal(t, buf1.String(), buf2.String())
}

func TestWriteThenLoadRoundTrips(t *testing.T) {
	counters := guard.NewCounters()
	counters.Bump("call@9", guard.ReasonCalleeMismatch)
	a := Snapshot(counters)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, a))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, Version, loaded.Version)
	require.Equal(t, uint64(1), loaded.PerSite["call@9"]["guard_callee_mismatch"])
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	_, err := Load(strings.NewReader(`{"version": 2, "per_site": {}}`))
	require.Error(t, err)
}
