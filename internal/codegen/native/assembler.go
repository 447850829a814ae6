// Package native is the codegen.Machine backend that emits real amd64
// machine code, adapted from the teacher's
// internal/asm/golang_asm/golang_asm.go wrapper around
// github.com/twitchyliquid64/golang-asm: a thin Node/assembler pair over
// obj.Prog, trimmed to the instruction subset spec.md's core IR needs
// rather than wazero's full WASM-opcode-driven encoder.
package native

import (
	"fmt"

	goasm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"
)

// assembler wraps a goasm.Builder the way GolangAsmBaseAssembler does in
// the teacher repo: one Builder per compiled function, Prog nodes
// appended in emission order, branch targets patched via SetTarget once
// the destination node exists.
type assembler struct {
	b                 *goasm.Builder
	pendingJumpTarget []*obj.Prog
}

func newAssembler() (*assembler, error) {
	b, err := goasm.NewBuilder("amd64", 256)
	if err != nil {
		return nil, fmt.Errorf("native: failed to create assembler: %w", err)
	}
	return &assembler{b: b}, nil
}

// add appends p to the instruction stream, resolving any pending jump
// targets onto it first — the teacher's own AddInstruction pattern.
func (a *assembler) add(p *obj.Prog) *obj.Prog {
	a.b.AddInstruction(p)
	for _, pending := range a.pendingJumpTarget {
		pending.To.SetTarget(p)
	}
	a.pendingJumpTarget = nil
	return p
}

func (a *assembler) prog() *obj.Prog { return a.b.NewProg() }

// setJumpTargetOnNext marks p so its branch target becomes whatever
// instruction is added next.
func (a *assembler) setJumpTargetOnNext(p *obj.Prog) {
	a.pendingJumpTarget = append(a.pendingJumpTarget, p)
}

func regAddr(reg int16) obj.Addr {
	return obj.Addr{Type: obj.TYPE_REG, Reg: reg}
}

func constAddr(v int64) obj.Addr {
	return obj.Addr{Type: obj.TYPE_CONST, Offset: v}
}

// stackSlot addresses a local slot at [BP - offset], the frame layout
// every lowered ssa.Value's result is spilled to (see machine.go).
func stackSlot(offset int64) obj.Addr {
	return obj.Addr{Type: obj.TYPE_MEM, Reg: x86.REG_BP, Offset: -offset}
}

func (a *assembler) movConstToReg(v int64, dst int16) {
	p := a.prog()
	p.As = x86.AMOVQ
	p.From = constAddr(v)
	p.To = regAddr(dst)
	a.add(p)
}

func (a *assembler) movRegToSlot(src int16, slot int64) {
	p := a.prog()
	p.As = x86.AMOVQ
	p.From = regAddr(src)
	p.To = stackSlot(slot)
	a.add(p)
}

func (a *assembler) movSlotToReg(slot int64, dst int16) {
	p := a.prog()
	p.As = x86.AMOVQ
	p.From = stackSlot(slot)
	p.To = regAddr(dst)
	a.add(p)
}

func (a *assembler) arith(op obj.As, src, dst int16) {
	p := a.prog()
	p.As = op
	p.From = regAddr(src)
	p.To = regAddr(dst)
	a.add(p)
}

func (a *assembler) ret() {
	p := a.prog()
	p.As = obj.ARET
	a.add(p)
}

func (a *assembler) assemble() []byte { return a.b.Assemble() }
