package intrinsics

import (
	"encoding/json"
	"fmt"

	"golang.org/x/mod/semver"
)

// ManifestVersion is the version of the intrinsic set compiled into this
// runtime. It must be a valid semver tag understood by golang.org/x/mod,
// e.g. "v1.3.0".
const ManifestVersion = "v1.0.0"

// ManifestEntry is the JSON-serializable form of one Entry, used to
// publish the declarative manifest consumed by the frontend (spec.md
// §4.3, §6).
type ManifestEntry struct {
	Name        string `json:"name"`
	ParamCount  int    `json:"param_count"`
	ResultCount int    `json:"result_count"`
	Variadic    bool   `json:"variadic"`
	Effect      string `json:"effect"`
	Capability  string `json:"capability,omitempty"`
}

// Manifest is the declarative, versioned list of intrinsics.
type Manifest struct {
	Version string          `json:"version"`
	Entries []ManifestEntry `json:"entries"`
}

func effectName(e EffectClass) string {
	switch e {
	case EffectPure:
		return "pure"
	case EffectReadHeap:
		return "read_heap"
	case EffectWriteHeap:
		return "write_heap"
	case EffectCall:
		return "call"
	case EffectThrow:
		return "throw"
	case EffectSuspend:
		return "suspend"
	default:
		return "unknown"
	}
}

// ExportManifest serializes the registry's current contents as a
// Manifest.
func (r *Registry) ExportManifest() Manifest {
	m := Manifest{Version: ManifestVersion}
	for _, e := range r.byID {
		m.Entries = append(m.Entries, ManifestEntry{
			Name:        e.Name,
			ParamCount:  e.Signature.ParamCount,
			ResultCount: e.Signature.ResultCount,
			Variadic:    e.Signature.Variadic,
			Effect:      effectName(e.Effect),
			Capability:  string(e.Capability),
		})
	}
	return m
}

// ManifestMismatch is a build-time error raised when the frontend's
// expected manifest version is incompatible with the runtime's compiled
// in manifest, or when an entry the frontend expects is absent.
type ManifestMismatch struct {
	Reason string
}

func (e *ManifestMismatch) Error() string {
	return fmt.Sprintf("intrinsics: manifest mismatch: %s", e.Reason)
}

// CheckManifestCompatible verifies that expectedVersion (the version the
// frontend was built against) is semver-compatible with the runtime's
// ManifestVersion: same major version, and the runtime must be at least
// as new.
func CheckManifestCompatible(expectedVersion string) error {
	if !semver.IsValid(expectedVersion) {
		return &ManifestMismatch{Reason: fmt.Sprintf("invalid frontend manifest version %q", expectedVersion)}
	}
	if semver.Major(expectedVersion) != semver.Major(ManifestVersion) {
		return &ManifestMismatch{Reason: fmt.Sprintf("major version mismatch: frontend wants %s, runtime is %s", expectedVersion, ManifestVersion)}
	}
	if semver.Compare(ManifestVersion, expectedVersion) < 0 {
		return &ManifestMismatch{Reason: fmt.Sprintf("runtime manifest %s is older than frontend's expected %s", ManifestVersion, expectedVersion)}
	}
	return nil
}

// LoadManifest parses a JSON-encoded Manifest, as written by
// ExportManifest.
func LoadManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("intrinsics: decoding manifest: %w", err)
	}
	return m, nil
}

// Marshal serializes m as indented JSON.
func (m Manifest) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// VerifyAgainst checks that every entry this registry implements matches
// the manifest's declared signature/effect exactly, and that no manifest
// entry is missing from the registry. Any mismatch is the "build-time
// error" spec.md §4.3 mandates.
func (r *Registry) VerifyAgainst(m Manifest) error {
	if err := CheckManifestCompatible(m.Version); err != nil {
		return err
	}
	declared := make(map[string]bool, len(m.Entries))
	for _, me := range m.Entries {
		declared[me.Name] = true
	}
	for _, e := range r.byID {
		if !declared[e.Name] {
			return &ManifestMismatch{Reason: fmt.Sprintf("runtime implements %q but the manifest does not declare it", e.Name)}
		}
	}
	for _, me := range m.Entries {
		e, err := r.Lookup(me.Name)
		if err != nil {
			return &ManifestMismatch{Reason: fmt.Sprintf("manifest declares %q but runtime has no implementation", me.Name)}
		}
		if e.Signature.ParamCount != me.ParamCount || e.Signature.ResultCount != me.ResultCount || e.Signature.Variadic != me.Variadic {
			return &ManifestMismatch{Reason: fmt.Sprintf("signature mismatch for %q", me.Name)}
		}
		if effectName(e.Effect) != me.Effect {
			return &ManifestMismatch{Reason: fmt.Sprintf("effect class mismatch for %q", me.Name)}
		}
		if string(e.Capability) != me.Capability {
			return &ManifestMismatch{Reason: fmt.Sprintf("capability mismatch for %q", me.Name)}
		}
	}
	return nil
}
