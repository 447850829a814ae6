package ssa

// Builder constructs a Function's SSA form incrementally, one source
// statement at a time, using the variable-renaming algorithm of Braun et
// al. ("Simple and Efficient Construction of Static Single Assignment
// Form") — the same algorithm wazero's ssa.builder implements for Wasm
// locals, applied here to the language's local variables.
type Builder struct {
	fn      *Function
	current *BasicBlock

	nextVar   Variable
	varTypes  map[Variable]Type
	nextValue ValueID

	// lastDefinitions and unknownValues are keyed by block then variable;
	// Go has no nested-map literal shortcut so we index by BlockID.
	lastDefinitions map[BlockID]map[Variable]Value
	unknownValues   map[BlockID]map[Variable]Value
	singlePred      map[BlockID]*BasicBlock
}

// NewBuilder returns a Builder that will construct fn's body.
func NewBuilder(fn *Function) *Builder {
	b := &Builder{
		fn:              fn,
		varTypes:        make(map[Variable]Type),
		lastDefinitions: make(map[BlockID]map[Variable]Value),
		unknownValues:   make(map[BlockID]map[Variable]Value),
		singlePred:      make(map[BlockID]*BasicBlock),
	}
	b.nextValue = fn.NextValueID()
	b.SetCurrentBlock(fn.EntryBlock())
	return b
}

// DeclareVariable introduces a new source-level variable of type t.
func (b *Builder) DeclareVariable(t Type) Variable {
	v := b.nextVar
	b.nextVar++
	b.varTypes[v] = t
	return v
}

// SetCurrentBlock moves the insertion point to blk.
func (b *Builder) SetCurrentBlock(blk *BasicBlock) { b.current = blk }

// CurrentBlock returns the block instructions are currently appended to.
func (b *Builder) CurrentBlock() *BasicBlock { return b.current }

// AllocateBasicBlock creates a new, initially unsealed block.
func (b *Builder) AllocateBasicBlock() *BasicBlock { return b.fn.newBlock() }

// allocateValue mints a fresh Value of type t from the function's own
// id counter, so ids minted later by Function.NewConstInt never collide.
func (b *Builder) allocateValue(t Type) Value {
	b.fn.nextValueID++
	id := b.fn.nextValueID
	b.nextValue = id + 1
	return Value(uint64(id)).withType(t)
}

// Emit appends ins to the current block, tagging its effect class from the
// opcode's default unless the caller already set one explicitly.
func (b *Builder) Emit(ins *Instruction) {
	if ins.effect == EffectPure && ins.opcode != OpInvalid {
		ins.effect = ins.opcode.defaultEffect()
	}
	b.current.append(ins)
}

// DefineVariable records that variable now holds value, as of block.
func (b *Builder) DefineVariable(variable Variable, value Value, block *BasicBlock) {
	defs, ok := b.lastDefinitions[block.id]
	if !ok {
		defs = make(map[Variable]Value)
		b.lastDefinitions[block.id] = defs
	}
	defs[variable] = value
}

// DefineVariableInCurrentBB is DefineVariable(variable, value, CurrentBlock()).
func (b *Builder) DefineVariableInCurrentBB(variable Variable, value Value) {
	b.DefineVariable(variable, value, b.current)
}

// FindValue resolves variable's current definition, recursing up the CFG
// and inserting block params on the fly for blocks with multiple
// predecessors (same algorithm as the teacher's builder.findValue).
func (b *Builder) FindValue(variable Variable) Value {
	t := b.varTypes[variable]
	return b.findValue(t, variable, b.current)
}

func (b *Builder) findValue(t Type, variable Variable, blk *BasicBlock) Value {
	if defs, ok := b.lastDefinitions[blk.id]; ok {
		if v, ok := defs[variable]; ok {
			return v
		}
	}
	if !blk.sealed {
		// CFG still incomplete: park a placeholder value that Seal will
		// wire up to a real block param once every predecessor is known.
		v := b.allocateValue(t)
		b.DefineVariable(variable, v, blk)
		u, ok := b.unknownValues[blk.id]
		if !ok {
			u = make(map[Variable]Value)
			b.unknownValues[blk.id] = u
		}
		u[variable] = v
		return v
	}
	if pred := b.singlePred[blk.id]; pred != nil {
		return b.findValue(t, variable, pred)
	}
	if len(blk.preds) == 0 {
		// Entry block with no definition: the variable is read before
		// written, which the frontend should have rejected already.
		v := b.allocateValue(t)
		b.DefineVariable(variable, v, blk)
		return v
	}
	param := b.allocateValue(t)
	blk.params = append(blk.params, param)
	b.DefineVariable(variable, param, blk)
	for i := range blk.preds {
		pred := &blk.preds[i]
		v := b.findValue(t, variable, pred.Block)
		pred.Branch.vs = append(pred.Branch.vs, v)
	}
	return param
}

// NewInstruction fabricates an instruction of the given opcode in the
// current block, wiring its operands/aux payload and allocating a typed
// result unless resultType is the zero Type. A real frontend would
// expose one typed constructor per opcode the way the teacher's
// ssa.Builder does (InsertIadd, InsertLoad, ...); this single generic
// constructor is the common path every one of those would funnel
// through, kept generic here since internal/frontend (source lowering)
// is out of this build's scope.
func (b *Builder) NewInstruction(op Opcode, resultType Type, v1, v2, v3 Value, vs []Value, u1, u2 uint64, aux string) *Instruction {
	ins := &Instruction{opcode: op, v: v1, v2: v2, v3: v3, vs: vs, u1: u1, u2: u2, sym: aux}
	ins.effect = op.defaultEffect()
	if resultType != typeInvalid {
		ins.rValue = b.allocateValue(resultType)
	} else {
		ins.rValue = ValueInvalid
	}
	b.Emit(ins)
	return ins
}

// NewConstInt emits a const_int instruction in the current block.
func (b *Builder) NewConstInt(v int64) *Instruction {
	return b.NewInstruction(OpConstInt, TypeI64, ValueInvalid, ValueInvalid, ValueInvalid, nil, uint64(v), 0, "")
}

// NewConstBool emits a const_bool instruction in the current block.
func (b *Builder) NewConstBool(v bool) *Instruction {
	var u uint64
	if v {
		u = 1
	}
	return b.NewInstruction(OpConstBool, TypeBool, ValueInvalid, ValueInvalid, ValueInvalid, nil, u, 0, "")
}

// NewJump emits an unconditional Jump to target, recording the edge with
// the caller's own AddPred call (NewJump does not seal anything).
func (b *Builder) NewJump(target *BasicBlock) *Instruction {
	ins := &Instruction{opcode: OpJump, v: ValueInvalid, v2: ValueInvalid, v3: ValueInvalid, rValue: ValueInvalid, targets: []*BasicBlock{target}}
	b.Emit(ins)
	return ins
}

// NewBranch emits a conditional Branch on cond to thenBlk or elseBlk.
func (b *Builder) NewBranch(cond Value, thenBlk, elseBlk *BasicBlock) *Instruction {
	ins := &Instruction{opcode: OpBranch, v: cond, v2: ValueInvalid, v3: ValueInvalid, rValue: ValueInvalid, targets: []*BasicBlock{thenBlk, elseBlk}}
	b.Emit(ins)
	return ins
}

// NewReturn emits a Return of the given values.
func (b *Builder) NewReturn(vs ...Value) *Instruction {
	ins := &Instruction{opcode: OpReturn, v: ValueInvalid, v2: ValueInvalid, v3: ValueInvalid, rValue: ValueInvalid, vs: vs}
	b.Emit(ins)
	return ins
}

// AddPred records that pred branches into blk via branch. blk must not be
// sealed yet.
func (b *Builder) AddPred(blk *BasicBlock, pred *BasicBlock, branch *Instruction) {
	blk.preds = append(blk.preds, Pred{Block: pred, Branch: branch})
}

// Seal finalizes blk's predecessor list: every FindValue call against it
// may now assume no further preds will arrive, and any parked unknown
// values become real block params wired through every predecessor's
// terminator.
func (b *Builder) Seal(blk *BasicBlock) {
	if len(blk.preds) == 1 {
		b.singlePred[blk.id] = blk.preds[0].Block
	}
	blk.sealed = true
	for variable, v := range b.unknownValues[blk.id] {
		t := b.varTypes[variable]
		blk.params = append(blk.params, v)
		for i := range blk.preds {
			pred := &blk.preds[i]
			pv := b.findValue(t, variable, pred.Block)
			pred.Branch.vs = append(pred.Branch.vs, pv)
		}
	}
	delete(b.unknownValues, blk.id)
}

// RemoveTrivialParams eliminates block params whose only distinct
// incoming argument (ignoring self-references through back edges) is a
// single Value, replacing every use of the param with that value. This
// is the block-param analogue of trivial-phi elimination: it drops the
// param from the block's param list and its argument from every
// predecessor's branch argument list, and rewrites every remaining use
// of it, in ordinary operands and argument lists of every instruction in
// the function alike.
func (b *Builder) RemoveTrivialParams() {
	for _, blk := range b.fn.blocks {
		if len(blk.params) == 0 || len(blk.preds) == 0 {
			continue // no incoming arguments: entry params are not trivial.
		}
		kept := blk.params[:0]
		removed := map[int]bool{}
		for pi, p := range blk.params {
			trivial, same := isTrivialParam(blk, pi, p)
			if trivial {
				rewriteParamUses(b.fn, p, same)
				removed[pi] = true
				continue
			}
			kept = append(kept, p)
		}
		blk.params = kept
		if len(removed) == 0 {
			continue
		}
		for i := range blk.preds {
			br := blk.preds[i].Branch
			args := make([]Value, 0, len(br.vs))
			for ai, v := range br.vs {
				if !removed[ai] {
					args = append(args, v)
				}
			}
			br.vs = args
		}
	}
}

func isTrivialParam(blk *BasicBlock, paramIdx int, param Value) (trivial bool, same Value) {
	same = ValueInvalid
	for i := range blk.preds {
		branch := blk.preds[i].Branch
		if paramIdx >= len(branch.vs) {
			return false, ValueInvalid
		}
		arg := branch.vs[paramIdx]
		if arg == param {
			continue // self-reference via a loop back edge
		}
		if !same.Valid() {
			same = arg
			continue
		}
		if same != arg {
			return false, ValueInvalid
		}
	}
	if !same.Valid() {
		same = param
	}
	return true, same
}

func rewriteParamUses(fn *Function, from, to Value) {
	for _, blk := range fn.blocks {
		for _, ins := range blk.Instructions() {
			if ins.v == from {
				ins.v = to
			}
			if ins.v2 == from {
				ins.v2 = to
			}
			if ins.v3 == from {
				ins.v3 = to
			}
			for i, v := range ins.vs {
				if v == from {
					ins.vs[i] = to
				}
			}
		}
	}
}
