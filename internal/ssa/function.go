package ssa

// Function is a typed SSA function: parameters, ordered basic blocks, and
// a declared effect summary (spec.md §3.5).
type Function struct {
	Name   string
	Tier   Tier
	Params []Type

	// EffectSummary is the function's own declared summary — pure,
	// read_heap, write_heap, call (may-call), or throw (may-throw). The
	// frontend must supply this; the core never infers it silently
	// (spec.md §6: "each function declares its effect summary").
	EffectSummary EffectClass

	blocks []*BasicBlock
	nextID BlockID

	// nextValueID is this function's own Value id counter. Parameters
	// consume the first ids; Builder continues from wherever this left
	// off so every Value within one Function is unique regardless of
	// how many other functions have been built in the process.
	nextValueID ValueID
}

// NewFunction constructs an empty function with a sealed entry block and
// a synthetic return block.
func NewFunction(name string, tier Tier, params []Type, effect EffectClass) *Function {
	f := &Function{Name: name, Tier: tier, Params: params, EffectSummary: effect}
	entry := f.newBlock()
	entry.entry = true
	for _, p := range params {
		entry.params = append(entry.params, f.allocParamValue(p))
	}
	ret := f.newBlock()
	ret.ret = true
	ret.sealed = true
	return f
}

// allocParamValue mints the Value for one parameter at function-build
// time, consuming the same id space a Builder continues from afterwards.
func (f *Function) allocParamValue(t Type) Value {
	f.nextValueID++
	return Value(uint64(f.nextValueID) | uint64(t)<<32)
}

// NextValueID returns the first Value id not yet consumed by a
// parameter, for Builder to resume numbering from.
func (f *Function) NextValueID() ValueID { return f.nextValueID + 1 }

// NewConstInt fabricates a const_int instruction carrying v, numbered
// from this function's own value-id space so mid-end passes can
// synthesize constants (e.g. constant folding) without colliding with
// ids the builder already issued.
func (f *Function) NewConstInt(v int64) (*Instruction, Value) {
	f.nextValueID++
	val := Value(uint64(f.nextValueID) | uint64(TypeI64)<<32)
	ins := &Instruction{
		opcode: OpConstInt,
		u1:     uint64(v),
		v:      ValueInvalid, v2: ValueInvalid, v3: ValueInvalid,
		rValue: val,
		typ:    TypeI64,
		effect: EffectPure,
	}
	return ins, val
}

func (f *Function) newBlock() *BasicBlock {
	b := &BasicBlock{id: f.nextID}
	f.nextID++
	f.blocks = append(f.blocks, b)
	return b
}

// Blocks returns the function's basic blocks in creation order.
func (f *Function) Blocks() []*BasicBlock { return f.blocks }

// EntryBlock returns the function's unique entry block.
func (f *Function) EntryBlock() *BasicBlock {
	for _, b := range f.blocks {
		if b.entry {
			return b
		}
	}
	return nil
}

// ReturnBlock returns the function's synthetic return block.
func (f *Function) ReturnBlock() *BasicBlock {
	for _, b := range f.blocks {
		if b.ret {
			return b
		}
	}
	return nil
}

// ValidateTierDiscipline enforces spec.md §4.4's "Tier-0 functions
// contain no speculative guards and no deopt edges" and §4.6's "Deopt is
// only legal in Tier-1; Tier-0 codegen rejects any instruction with a
// deopt edge."
func (f *Function) ValidateTierDiscipline() error {
	if f.Tier == Tier1 {
		return nil
	}
	for _, b := range f.blocks {
		for _, i := range b.Instructions() {
			if i.IsGuard() {
				return &TierViolationError{Func: f.Name, Block: b.id, Opcode: i.Opcode()}
			}
		}
	}
	return nil
}

// TierViolationError is raised when a Tier-0 function contains an
// instruction that requires Tier-1 speculation.
type TierViolationError struct {
	Func   string
	Block  BlockID
	Opcode Opcode
}

func (e *TierViolationError) Error() string {
	return "ssa: tier0 function " + e.Func + " contains a tier1-only instruction: " + e.Opcode.String()
}
