// Package codegen defines the backend-agnostic contract between the
// mid-end's optimized SSA and a concrete code emitter, per spec.md §9
// ("Abstract backend API used by both native and WASM emitters; no
// backend-specific content in §4"). Directly adapted from
// internal/engine/wazevo/backend/machine.go's Machine interface,
// trimmed to the instruction categories spec.md actually names (no
// register allocator contract of its own — each concrete Machine owns
// whatever register/stack discipline its target needs).
package codegen

import "github.com/adpena/molt/internal/ssa"

// Machine lowers one already-optimized ssa.Function into a target's
// instruction stream. A Compiler drives a Machine through a fixed
// sequence: SetCompiler once per Machine, then for every function
// Reset, LowerInstr for every instruction in program order, RegAlloc,
// PostRegAlloc, and finally Encode to obtain the function's encoded
// bytes (Format gives a readable listing of the same code).
type Machine interface {
	// SetCompiler wires the Compiler driving this Machine's lowering.
	// Called once, before the first function is compiled.
	SetCompiler(Compiler)

	// Reset clears any per-function state so the Machine can lower the
	// next ssa.Function from scratch.
	Reset()

	// LowerInstr lowers a single SSA instruction into the target's
	// representation, recording the result through the Compiler.
	LowerInstr(*ssa.Instruction)

	// RegAlloc performs register/local-slot allocation over the
	// instructions lowered so far.
	RegAlloc()

	// PostRegAlloc performs post-allocation fixups: prologue/epilogue
	// insertion, redundant-move elimination, stack-frame sizing.
	PostRegAlloc()

	// Format returns a human-readable disassembly of the function
	// compiled so far, for tests and diffbench failure reports.
	Format() string

	// Encode returns the final encoded bytes for the function compiled
	// so far (machine code for a native Machine, a WASM code-section
	// entry for the WASM Machine).
	Encode() ([]byte, error)
}

// Compiler is the driver a Machine calls back into while lowering:
// it hands out the function currently being compiled and records
// relocations the Machine can't resolve until every function in the
// module has been placed.
type Compiler interface {
	// Function returns the ssa.Function currently being lowered.
	Function() *ssa.Function

	// DeclareFuncRef records a direct-call target's symbolic name against
	// a stable FuncRef the Machine can emit now and the linker resolves
	// once every function's final offset is known.
	DeclareFuncRef(name string) ssa.FuncRef

	// Relocations returns the relocations recorded so far, for a
	// final-pass linker to patch into the emitted binary.
	Relocations() []Relocation
}

// Relocation is an unresolved direct-call or global reference recorded
// during lowering, patched once the whole module's layout is known.
type Relocation struct {
	FuncRef     ssa.FuncRef
	SiteOffset  int // byte offset within the emitting function's own code
	Addend      int64
}

// compiler is the minimal concrete Compiler both backends share: one
// function at a time, symbol table keyed by name. DeclareFuncRef only
// hands out FuncRefs; nothing appends to relocs, so Relocations always
// returns an empty list.
type compiler struct {
	fn   *ssa.Function
	syms map[string]ssa.FuncRef
	next ssa.FuncRef
	relocs []Relocation
}

// NewCompiler returns a Compiler driving the lowering of fn.
func NewCompiler(fn *ssa.Function) Compiler {
	return &compiler{fn: fn, syms: make(map[string]ssa.FuncRef)}
}

func (c *compiler) Function() *ssa.Function { return c.fn }

func (c *compiler) DeclareFuncRef(name string) ssa.FuncRef {
	if ref, ok := c.syms[name]; ok {
		return ref
	}
	c.next++
	ref := c.next
	c.syms[name] = ref
	return ref
}

func (c *compiler) Relocations() []Relocation { return c.relocs }
