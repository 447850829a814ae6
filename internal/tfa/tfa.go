// Package tfa implements the Type Facts Artifact: the JSON-schema record
// of per-symbol types and trust levels consumed by the mid-end optimizer
// (spec.md §3.4, §6). Plain encoding/json structs, matching the
// teacher's own stance of carrying no JSON dependency anywhere in its
// core engine — these are fixed on-disk schemas, not a concern any pack
// library (protobuf, msgpack, etc.) would serve better than
// encoding/json's struct tags.
package tfa

import (
	"encoding/json"
	"fmt"
	"io"
)

// Trust is the optimizer-facing confidence level of a type fact
// (spec.md §3.4): "trusted eliminates guards; guarded inserts a guard +
// deopt edge; advisory is documentation."
type Trust string

const (
	TrustAdvisory Trust = "advisory"
	TrustGuarded  Trust = "guarded"
	TrustTrusted  Trust = "trusted"
)

func (t Trust) Valid() bool {
	switch t {
	case TrustAdvisory, TrustGuarded, TrustTrusted:
		return true
	default:
		return false
	}
}

// SchemaVersion is the only schema_version this package understands;
// Load rejects any other value rather than guessing at forward
// compatibility.
const SchemaVersion = 1

// GlobalFact is one global symbol's recorded type and trust.
type GlobalFact struct {
	Type  string `json:"type"`
	Trust Trust  `json:"trust"`
}

// FunctionFact is one function symbol's parameter/local/return type
// facts, each keyed by name (params, locals) or by an ordinal string
// (returns, for multi-value returns).
type FunctionFact struct {
	Params  map[string]GlobalFact `json:"params"`
	Locals  map[string]GlobalFact `json:"locals"`
	Returns map[string]GlobalFact `json:"returns"`
}

// Module is one compiled module's globals and functions sections.
type Module struct {
	Globals   map[string]GlobalFact   `json:"globals"`
	Functions map[string]FunctionFact `json:"functions"`
}

// Artifact is the root Type Facts Artifact document, per spec.md §6's
// published schema.
type Artifact struct {
	SchemaVersion int               `json:"schema_version"`
	Tool          string            `json:"tool"`
	Strict        bool              `json:"strict"`
	Modules       map[string]Module `json:"modules"`
}

// New returns an empty artifact stamped with the current SchemaVersion.
func New(tool string, strict bool) *Artifact {
	return &Artifact{SchemaVersion: SchemaVersion, Tool: tool, Strict: strict, Modules: make(map[string]Module)}
}

// Load decodes and validates an Artifact from r. Validation rejects an
// unknown schema_version and any Trust value outside the three named in
// spec.md §3.4 — a malformed TFA is a build-time error here, never a
// silently-ignored advisory fact (spec.md §6: "any unsupported construct
// is a compile-time error, never a silent fallback").
func Load(r io.Reader) (*Artifact, error) {
	var a Artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("tfa: decode: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks the schema version and every embedded Trust value.
func (a *Artifact) Validate() error {
	if a.SchemaVersion != SchemaVersion {
		return fmt.Errorf("tfa: unsupported schema_version %d, want %d", a.SchemaVersion, SchemaVersion)
	}
	for modName, mod := range a.Modules {
		for sym, g := range mod.Globals {
			if !g.Trust.Valid() {
				return fmt.Errorf("tfa: module %q global %q: invalid trust %q", modName, sym, g.Trust)
			}
		}
		for sym, fn := range mod.Functions {
			for _, facts := range []map[string]GlobalFact{fn.Params, fn.Locals, fn.Returns} {
				for name, g := range facts {
					if !g.Trust.Valid() {
						return fmt.Errorf("tfa: module %q function %q symbol %q: invalid trust %q", modName, sym, name, g.Trust)
					}
				}
			}
		}
	}
	return nil
}

// Lookup returns the recorded global fact for sym in module modName, if
// any, and the optimizer-usable trust. A missing entry is equivalent to
// TrustAdvisory with no declared type ("no fact available"), per spec.md
// §3.4's "advisory is documentation" default. No mid-end pass calls
// Lookup.
func (a *Artifact) Lookup(modName, sym string) (GlobalFact, bool) {
	mod, ok := a.Modules[modName]
	if !ok {
		return GlobalFact{}, false
	}
	g, ok := mod.Globals[sym]
	return g, ok
}

// Encode serializes a to w as indented JSON.
func (a *Artifact) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}
