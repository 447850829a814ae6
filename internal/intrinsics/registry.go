// Package intrinsics is the single canonical name→function table exposed
// to both the frontend (for lowering) and the runtime (for dispatch),
// per spec.md §4.3. Codegen and runtime are meant to be generated from
// the same Manifest; ID packing follows the
// wazevoapi.ExitCodeCallGoFunctionWithIndex idiom of packing a small
// integer alongside a base code.
package intrinsics

import "fmt"

// EffectClass mirrors the instruction effect-class taxonomy of spec.md
// §4.4, attached here to each intrinsic rather than to an IR opcode.
type EffectClass uint8

const (
	EffectPure EffectClass = iota
	EffectReadHeap
	EffectWriteHeap
	EffectCall
	EffectThrow
	EffectSuspend
)

// Capability names a process-level capability an intrinsic may require
// before it is allowed to execute (spec.md §6).
type Capability string

const (
	CapNone    Capability = ""
	CapFSRead  Capability = "fs.read"
	CapFSWrite Capability = "fs.write"
	CapNet     Capability = "net"
	CapEnvRead Capability = "env.read"
)

// Signature is a simplified type signature: parameter and result arity is
// sufficient for the registry's own bookkeeping; exact types live in the
// Type Facts Artifact.
type Signature struct {
	ParamCount  int
	ResultCount int
	Variadic    bool
}

// Func is the runtime-side implementation of an intrinsic.
type Func func(args []uint64) ([]uint64, error)

// Entry is one manifest row: a stable name bound to a signature, effect
// class, required capability, and (at runtime) an implementation.
type Entry struct {
	ID         uint32
	Name       string
	Signature  Signature
	Effect     EffectClass
	Capability Capability
	Impl       Func
}

// MissingIntrinsic is raised when lowering references a name absent from
// the manifest. It is never silently swallowed (spec.md §4.3).
type MissingIntrinsic struct {
	Name string
}

func (e *MissingIntrinsic) Error() string {
	return fmt.Sprintf("intrinsics: missing intrinsic %q", e.Name)
}

// CapabilityDenied is raised when a capability-gated intrinsic is invoked
// without the required capability granted.
type CapabilityDenied struct {
	Name string
	Cap  Capability
}

func (e *CapabilityDenied) Error() string {
	return fmt.Sprintf("intrinsics: capability %q denied for %q", e.Cap, e.Name)
}

// Registry is the manifest-backed, name-indexed intrinsic table.
type Registry struct {
	byName map[string]*Entry
	byID   []*Entry
	caps   map[Capability]bool
}

// NewRegistry constructs an empty registry with no capabilities granted.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Entry), caps: make(map[Capability]bool)}
}

// Grant adds a capability to the process-level capability set.
func (r *Registry) Grant(c Capability) {
	r.caps[c] = true
}

// Register adds a manifest entry. Re-registering an existing name is a
// build-time error, matching "mismatch between manifest and runtime is a
// build-time error" (spec.md §4.3).
func (r *Registry) Register(name string, sig Signature, effect EffectClass, cap Capability, impl Func) (*Entry, error) {
	if _, dup := r.byName[name]; dup {
		return nil, fmt.Errorf("intrinsics: duplicate registration of %q", name)
	}
	e := &Entry{
		ID:         uint32(len(r.byID)),
		Name:       name,
		Signature:  sig,
		Effect:     effect,
		Capability: cap,
		Impl:       impl,
	}
	r.byName[name] = e
	r.byID = append(r.byID, e)
	return e, nil
}

// Lookup resolves a name to its manifest entry, or MissingIntrinsic.
func (r *Registry) Lookup(name string) (*Entry, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, &MissingIntrinsic{Name: name}
	}
	return e, nil
}

// ByID resolves a stable numeric id to its manifest entry, used by
// codegen's call sites.
func (r *Registry) ByID(id uint32) (*Entry, bool) {
	if int(id) >= len(r.byID) {
		return nil, false
	}
	return r.byID[id], true
}

// Invoke runs the named intrinsic after checking its capability gate.
func (r *Registry) Invoke(name string, args []uint64) ([]uint64, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if e.Capability != CapNone && !r.caps[e.Capability] {
		return nil, &CapabilityDenied{Name: name, Cap: e.Capability}
	}
	if e.Impl == nil {
		return nil, fmt.Errorf("intrinsics: %q has no runtime implementation", name)
	}
	return e.Impl(args)
}

// Len reports how many intrinsics are registered.
func (r *Registry) Len() int { return len(r.byID) }
