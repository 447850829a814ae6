package native

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/adpena/molt/internal/codegen"
	"github.com/adpena/molt/internal/ssa"
)

// Machine implements codegen.Machine over amd64 via golang-asm. It
// lowers a restricted subset of spec.md §4.4's arithmetic/control
// categories directly; everything else (calls, objects, guards, async, RC) is
// left for a later iteration of the backend, matching the teacher's own
// stance on golang-asm as a placeholder ("once we reach some maturity,
// remove this dep and implement our own assembler") — here the
// placeholder is the subset of opcodes lowered, not the assembler.
type Machine struct {
	compiler codegen.Compiler
	asm      *assembler

	// slot maps a Value to its stack-frame offset (bytes from BP),
	// assigned on first use in declaration order. A real register
	// allocator would assign physical registers to hot values instead;
	// this backend keeps every value in its own spill slot and only uses
	// AX/BX as scratch registers during an instruction's lowering.
	slot     map[ssa.ValueID]int64
	nextSlot int64
}

// NewMachine returns a fresh amd64 Machine.
func NewMachine() (*Machine, error) {
	a, err := newAssembler()
	if err != nil {
		return nil, err
	}
	return &Machine{asm: a, slot: make(map[ssa.ValueID]int64)}, nil
}

func (m *Machine) SetCompiler(c codegen.Compiler) { m.compiler = c }

func (m *Machine) Reset() {
	a, _ := newAssembler() // newAssembler only fails on an unknown arch string, never "amd64"
	m.asm = a
	m.slot = make(map[ssa.ValueID]int64)
	m.nextSlot = 0
}

func (m *Machine) slotFor(v ssa.Value) int64 {
	id := v.ID()
	if off, ok := m.slot[id]; ok {
		return off
	}
	m.nextSlot += 8
	m.slot[id] = m.nextSlot
	return m.nextSlot
}

// LowerInstr lowers one instruction: load operands from their slots into
// AX/BX, compute, spill the result back to its own slot.
func (m *Machine) LowerInstr(ins *ssa.Instruction) {
	switch ins.Opcode() {
	case ssa.OpConstInt:
		m.asm.movConstToReg(int64(ins.AuxInt()), x86.REG_AX)
		m.asm.movRegToSlot(x86.REG_AX, m.slotFor(ins.Return()))
	case ssa.OpAdd, ssa.OpSub:
		v1, v2, _, _ := ins.Args()
		m.asm.movSlotToReg(m.slotFor(v1), x86.REG_AX)
		m.asm.movSlotToReg(m.slotFor(v2), x86.REG_BX)
		op := x86.AADDQ
		if ins.Opcode() == ssa.OpSub {
			op = x86.ASUBQ
		}
		m.asm.arith(op, x86.REG_BX, x86.REG_AX)
		m.asm.movRegToSlot(x86.REG_AX, m.slotFor(ins.Return()))
	case ssa.OpReturn:
		v1, _, _, _ := ins.Args()
		if v1.Valid() {
			m.asm.movSlotToReg(m.slotFor(v1), x86.REG_AX)
		}
		m.asm.ret()
	default:
		// Every other opcode requires object-model/guard/async/RC runtime
		// calls this minimal backend does not yet lower; left as a
		// follow-up once the FFI-bridge call convention is wired up.
	}
}

func (m *Machine) RegAlloc() {
	// Each ssa.Value already owns its own stack slot (see slotFor); no
	// separate allocation pass is needed for this backend.
}

func (m *Machine) PostRegAlloc() {
	// Frame-size fixups would be inserted here (push/sub rsp by
	// m.nextSlot bytes) once a prologue/epilogue pair is added; skipped
	// for the spill-everything scheme this minimal backend uses.
}

func (m *Machine) Format() string { return fmt.Sprintf("native/amd64 (%d spill slots)", len(m.slot)) }

func (m *Machine) Encode() ([]byte, error) { return m.asm.assemble(), nil }
