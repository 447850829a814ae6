// Package feedback writes the runtime-feedback artifact spec.md §6
// names: "a deterministic JSON artifact written per run containing
// per-guard-site reason counters. Schema: { version: int, per_site: {
// site_id: { reason_name: count } } }." Stdlib only (encoding/json),
// same justification as internal/tfa: a fixed on-disk schema, not a
// concern any pack serialization library would serve better. Go's
// encoding/json sorts string-keyed map keys before encoding, so this
// artifact comes out byte-identical run over run for identical counts
// with no extra sorting logic needed.
package feedback

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/adpena/molt/internal/guard"
)

// Version is the only artifact version this package writes or
// understands.
const Version = 1

// Artifact is the root runtime-feedback document.
type Artifact struct {
	Version int                          `json:"version"`
	PerSite map[string]map[string]uint64 `json:"per_site"`
}

// Snapshot builds an Artifact from counters' current state (spec.md
// §6's per-guard-site reason counters).
func Snapshot(counters *guard.Counters) *Artifact {
	return &Artifact{Version: Version, PerSite: counters.Snapshot()}
}

// Write serializes a to w as JSON.
func Write(w io.Writer, a *Artifact) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("feedback: encode: %w", err)
	}
	return nil
}

// Load reads and validates a runtime-feedback artifact from r.
func Load(r io.Reader) (*Artifact, error) {
	var a Artifact
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("feedback: decode: %w", err)
	}
	if a.Version != Version {
		return nil, fmt.Errorf("feedback: unsupported version %d, want %d", a.Version, Version)
	}
	return &a, nil
}
