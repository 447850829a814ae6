package wasm

import (
	"fmt"

	"github.com/adpena/molt/internal/codegen"
	"github.com/adpena/molt/internal/ssa"
)

const (
	opI64Const = 0x42
	opI64Add   = 0x7c
	opI64Sub   = 0x7d
	opEnd      = 0x0b
)

// Machine implements codegen.Machine by emitting one WASM function body
// per lowered ssa.Function, using a pure expression-stack model (WASM's
// own operand stack stands in for the register allocator a native
// target needs): every ssa.Value's producing instruction pushes its
// result, and a use re-pushes it via local.get once spilled to a local.
type Machine struct {
	compiler codegen.Compiler

	body   []byte
	locals map[ssa.ValueID]uint32
	nLocal uint32
}

// NewMachine returns a fresh WASM Machine.
func NewMachine() *Machine { return &Machine{locals: make(map[ssa.ValueID]uint32)} }

func (m *Machine) SetCompiler(c codegen.Compiler) { m.compiler = c }

func (m *Machine) Reset() {
	m.body = nil
	m.locals = make(map[ssa.ValueID]uint32)
	m.nLocal = 0
}

func (m *Machine) localFor(v ssa.Value) uint32 {
	id := v.ID()
	if idx, ok := m.locals[id]; ok {
		return idx
	}
	idx := m.nLocal
	m.locals[id] = idx
	m.nLocal++
	return idx
}

// localGet/localSet are WASM's 0x20/0x21 opcodes, appended with the
// local's ULEB128 index.
func (m *Machine) localGet(v ssa.Value) {
	m.body = append(m.body, 0x20)
	m.body = appendULEB128(m.body, uint64(m.localFor(v)))
}

func (m *Machine) localSet(v ssa.Value) {
	m.body = append(m.body, 0x21)
	m.body = appendULEB128(m.body, uint64(m.localFor(v)))
}

// LowerInstr lowers one instruction onto the WASM operand stack,
// spilling its result to a fresh local so later consumers (possibly in
// a different source order once the mid-end has reordered pure
// instructions within an InstructionGroupID) can re-push it explicitly.
func (m *Machine) LowerInstr(ins *ssa.Instruction) {
	switch ins.Opcode() {
	case ssa.OpConstInt:
		m.body = append(m.body, opI64Const)
		m.body = appendSLEB128(m.body, int64(ins.AuxInt()))
		m.localSet(ins.Return())
	case ssa.OpAdd, ssa.OpSub:
		v1, v2, _, _ := ins.Args()
		m.localGet(v1)
		m.localGet(v2)
		if ins.Opcode() == ssa.OpAdd {
			m.body = append(m.body, opI64Add)
		} else {
			m.body = append(m.body, opI64Sub)
		}
		m.localSet(ins.Return())
	case ssa.OpReturn:
		v1, _, _, _ := ins.Args()
		if v1.Valid() {
			m.localGet(v1)
		}
		m.body = append(m.body, opEnd)
	default:
		// Object-model/guard/async/RC opcodes need a runtime import table
		// this minimal backend does not yet wire up.
	}
}

func (m *Machine) RegAlloc() {
	// WASM's validator assigns the operand stack itself; no separate
	// allocation step applies to this backend.
}

func (m *Machine) PostRegAlloc() {
	// No prologue/epilogue: a WASM function body's locals section and
	// structured end opcode are its entire frame contract.
}

func (m *Machine) Format() string {
	return fmt.Sprintf("wasm (%d bytes body, %d locals)", len(m.body), m.nLocal)
}

// Encode returns this function's raw WASM function body (the portion a
// Module's code section wraps with a locals-count prefix); call
// EncodeModule to obtain a complete, loadable module.
func (m *Machine) Encode() ([]byte, error) { return m.body, nil }

// EncodeModule wraps this function's lowered body into a minimal
// single-function WASM module with the given export name, all i64
// params/one i64 result — the only signature shape this reduced
// instruction set produces.
func (m *Machine) EncodeModule(paramCount int, exportName string) []byte {
	params := make([]byte, paramCount)
	for i := range params {
		params[i] = valtypeI64
	}
	mod := NewModule()
	mod.AddFunction(FuncType{Params: params, Results: []byte{valtypeI64}}, m.body, exportName)
	return mod.Encode()
}
