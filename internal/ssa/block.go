package ssa

import "fmt"

// Pred records one predecessor edge: the predecessor block and the
// terminator instruction inside it that jumps to this block.
type Pred struct {
	Block  *BasicBlock
	Branch *Instruction
}

// BasicBlock is an ordered sequence of instructions ending in exactly one
// terminator. Per spec.md §3.5, loop-carried state is passed through
// block parameters rather than explicit Phi instructions ("SSA via block
// params"), following wazero's ssa.basicBlock design.
type BasicBlock struct {
	id BlockID

	// params are this block's typed parameters; every predecessor's
	// terminator must supply one argument Value per param.
	params []Value

	head, tail *Instruction

	preds []Pred

	sealed  bool
	invalid bool

	entry  bool
	ret    bool
	loop   bool
	reversePostOrder int
}

// ID returns the block's identifier.
func (b *BasicBlock) ID() BlockID { return b.id }

// Params returns the block's typed parameters.
func (b *BasicBlock) Params() []Value { return b.params }

// Preds returns the block's predecessor edges.
func (b *BasicBlock) Preds() []Pred { return b.preds }

// Succs returns the block's successors, read off its terminator's
// branch targets (there is no separately maintained successor list to
// keep in sync — the terminator is the single source of truth).
func (b *BasicBlock) Succs() []*BasicBlock {
	term := b.Terminator()
	if term == nil {
		return nil
	}
	return term.targets
}

// Sealed reports whether every predecessor of b is known (no more will be
// added). SSA construction may only read a sealed block's dominance
// facts.
func (b *BasicBlock) Sealed() bool { return b.sealed }

// EntryBlock reports whether b is the function's unique entry block.
func (b *BasicBlock) EntryBlock() bool { return b.entry }

// ReturnBlock reports whether b is a terminal return block (the implicit
// successor of Return/Throw instructions, matching the teacher's sentinel
// "return block" used to keep the CFG closed).
func (b *BasicBlock) ReturnBlock() bool { return b.ret }

// LoopHeader reports b's loop flag. No pass sets it, so it is always
// false; internal/midend's CFG.LoopHeader computes loop headers itself.
func (b *BasicBlock) LoopHeader() bool { return b.loop }

// Invalid reports b's unreachable flag. No pass sets it, so it is always
// false.
func (b *BasicBlock) Invalid() bool { return b.invalid }

// Instructions iterates b's instructions in program order.
func (b *BasicBlock) Instructions() []*Instruction {
	var out []*Instruction
	for i := b.head; i != nil; i = i.next {
		out = append(out, i)
	}
	return out
}

// Terminator returns b's terminator instruction, or nil if b is empty or
// not yet terminated.
func (b *BasicBlock) Terminator() *Instruction {
	if b.tail != nil && b.tail.IsTerminator() {
		return b.tail
	}
	return nil
}

func (b *BasicBlock) append(i *Instruction) {
	i.block = b
	if b.tail == nil {
		b.head, b.tail = i, i
		return
	}
	b.tail.next = i
	i.prev = b.tail
	b.tail = i
}

// remove unlinks i from b's instruction list. Used by DCE/simplify.
func (b *BasicBlock) remove(i *Instruction) {
	if i.prev != nil {
		i.prev.next = i.next
	} else {
		b.head = i.next
	}
	if i.next != nil {
		i.next.prev = i.prev
	} else {
		b.tail = i.prev
	}
	i.prev, i.next = nil, nil
}

// RemoveInstruction unlinks ins from its owning block. Used by DCE once
// an instruction's result has zero remaining references and it carries
// no side effect worth preserving.
func RemoveInstruction(ins *Instruction) { ins.block.remove(ins) }

// InsertBefore splices ins into at's block immediately before at. Used
// by the mid-end to materialize folded constants next to the
// instruction whose operand they replace.
func InsertBefore(at, ins *Instruction) {
	blk := at.block
	ins.block = blk
	ins.prev = at.prev
	ins.next = at
	if at.prev != nil {
		at.prev.next = ins
	} else {
		blk.head = ins
	}
	at.prev = ins
}

// RewriteToJump turns a Branch instruction into an unconditional Jump to
// taken, dropping the other target and repairing its predecessor list.
// Used by the mid-end's SCCP pass once a branch condition resolves to a
// compile-time constant.
func RewriteToJump(branch *Instruction, taken *BasicBlock) {
	blk := branch.block
	for _, t := range branch.targets {
		if t == taken {
			continue
		}
		kept := t.preds[:0]
		for _, p := range t.preds {
			if p.Block == blk && p.Branch == branch {
				continue
			}
			kept = append(kept, p)
		}
		t.preds = kept
	}
	branch.opcode = OpJump
	branch.targets = []*BasicBlock{taken}
	branch.v, branch.v2, branch.v3 = ValueInvalid, ValueInvalid, ValueInvalid
}

func (b *BasicBlock) String() string {
	return fmt.Sprintf("blk%d", b.id)
}
