package tfa

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadValidArtifact(t *testing.T) {
	doc := `{
		"schema_version": 1, "tool": "moltc", "strict": true,
		"modules": {
			"app": {
				"globals": {"counter": {"type": "int", "trust": "trusted"}},
				"functions": {
					"add": {
						"params": {"x": {"type": "int", "trust": "guarded"}},
						"locals": {},
						"returns": {"0": {"type": "int", "trust": "advisory"}}
					}
				}
			}
		}
	}`
	a, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "moltc", a.Tool)
	fact, ok := a.Lookup("app", "counter")
	require.True(t, ok)
	require.Equal(t, TrustTrusted, fact.Trust)
}

func TestLoadRejectsUnknownSchemaVersion(t *testing.T) {
	doc := `{"schema_version": 99, "tool": "moltc", "strict": false, "modules": {}}`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
}

func TestLoadRejectsInvalidTrust(t *testing.T) {
	doc := `{
		"schema_version": 1, "tool": "moltc", "strict": false,
		"modules": {"app": {"globals": {"x": {"type": "int", "trust": "maybe"}}, "functions": {}}}
	}`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
}

func TestLookupMissingSymbolReportsNotFound(t *testing.T) {
	a := New("moltc", false)
	_, ok := a.Lookup("app", "nope")
	require.False(t, ok)
}

func TestEncodeThenLoadRoundTrips(t *testing.T) {
	a := New("moltc", true)
	a.Modules["app"] = Module{
		Globals:   map[string]GlobalFact{"x": {Type: "int", Trust: TrustGuarded}},
		Functions: map[string]FunctionFact{},
	}
	var buf bytes.Buffer
	require.NoError(t, a.Encode(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	fact, ok := loaded.Lookup("app", "x")
	require.True(t, ok)
	require.Equal(t, TrustGuarded, fact.Trust)
}
