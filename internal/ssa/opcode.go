package ssa

// Opcode enumerates the instruction categories named in spec.md §4.4.
// Grouping and ordering follows the spec's own prose order; the flattened
// switch-on-opcode style matches ssa.Opcode in the teacher.
type Opcode uint32

const (
	OpInvalid Opcode = iota

	// --- constants ---
	OpConstInt
	OpConstFloat
	OpConstBool
	OpConstNone

	// --- arithmetic / logic ---
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpAnd
	OpOr
	OpXor
	OpNot
	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe

	// --- control ---
	OpJump
	OpBranch
	OpReturn
	OpThrow
	OpTryStart
	OpTryEnd
	OpCheckException
	OpLoopBreakIf

	// --- calls ---
	OpCallDirect
	OpCallIndirect
	OpCallFFIBridge

	// --- object / layout ---
	OpAlloc
	OpAttrLoadGeneric
	OpAttrStoreGeneric
	OpAttrLoadFixed
	OpAttrStoreFixed
	OpIndex
	OpIterNew
	OpIterNext
	OpContainerNew
	OpLen
	OpSlice

	// --- bytes/str/bytearray methods ---
	OpStrFind
	OpStrSplit
	OpStrReplace
	OpStrFormat
	OpStrStartswith
	OpStrEndswith
	OpStrCount
	OpStrJoin
	OpStrCapitalize
	OpStrStrip

	// --- exception lifecycle ---
	OpExcNew
	OpExcLast
	OpExcClear
	OpExcKind
	OpExcMessage
	OpExcSetCause
	OpExcContextSet
	OpRaise

	// --- generator / async ---
	OpAllocGenerator
	OpGenSend
	OpGenThrow
	OpGenClose
	OpIsGenerator
	OpAIter
	OpANext
	OpAllocFuture
	OpCallAsync
	OpStateSwitch
	OpStateTransition
	OpStateYield
	OpChanNew
	OpChanSendYield
	OpChanRecvYield

	// --- vector reductions ---
	OpVecSum
	OpVecProd
	OpVecMin
	OpVecMax

	// --- guards ---
	OpGuardType
	OpGuardTag
	OpGuardLayout
	OpGuardDictShape
	OpGuardDictHasKeys
	OpGuardLenGe
	OpGuardIndexInBounds
	OpGuardCallee
	OpGuardNe

	// --- RC ---
	OpIncRef
	OpDecRef
	OpBorrow
	OpRelease

	// --- conversions ---
	OpBox
	OpUnbox
	OpCast
	OpWiden
	OpStrFromObj

	opcodeMax
)

var opcodeNames = [...]string{
	OpInvalid:            "invalid",
	OpConstInt:           "const_int",
	OpConstFloat:         "const_float",
	OpConstBool:          "const_bool",
	OpConstNone:          "const_none",
	OpAdd:                "add",
	OpSub:                "sub",
	OpMul:                "mul",
	OpDiv:                "div",
	OpMod:                "mod",
	OpNeg:                "neg",
	OpAnd:                "and",
	OpOr:                 "or",
	OpXor:                "xor",
	OpNot:                "not",
	OpCmpEq:              "cmp_eq",
	OpCmpNe:              "cmp_ne",
	OpCmpLt:              "cmp_lt",
	OpCmpLe:              "cmp_le",
	OpCmpGt:              "cmp_gt",
	OpCmpGe:              "cmp_ge",
	OpJump:               "jump",
	OpBranch:             "branch",
	OpReturn:             "return",
	OpThrow:              "throw",
	OpTryStart:           "try_start",
	OpTryEnd:             "try_end",
	OpCheckException:     "check_exception",
	OpLoopBreakIf:        "loop_break_if",
	OpCallDirect:         "call_direct",
	OpCallIndirect:       "call_indirect",
	OpCallFFIBridge:      "call_ffi_bridge",
	OpAlloc:              "alloc",
	OpAttrLoadGeneric:    "attr_load_generic",
	OpAttrStoreGeneric:   "attr_store_generic",
	OpAttrLoadFixed:      "attr_load_fixed",
	OpAttrStoreFixed:     "attr_store_fixed",
	OpIndex:              "index",
	OpIterNew:            "iter_new",
	OpIterNext:           "iter_next",
	OpContainerNew:       "container_new",
	OpLen:                "len",
	OpSlice:              "slice",
	OpStrFind:            "str_find",
	OpStrSplit:           "str_split",
	OpStrReplace:         "str_replace",
	OpStrFormat:          "str_format",
	OpStrStartswith:      "str_startswith",
	OpStrEndswith:        "str_endswith",
	OpStrCount:           "str_count",
	OpStrJoin:            "str_join",
	OpStrCapitalize:      "str_capitalize",
	OpStrStrip:           "str_strip",
	OpExcNew:             "exc_new",
	OpExcLast:            "exc_last",
	OpExcClear:           "exc_clear",
	OpExcKind:            "exc_kind",
	OpExcMessage:         "exc_message",
	OpExcSetCause:        "exc_set_cause",
	OpExcContextSet:      "exc_context_set",
	OpRaise:              "raise",
	OpAllocGenerator:     "alloc_generator",
	OpGenSend:            "gen_send",
	OpGenThrow:           "gen_throw",
	OpGenClose:           "gen_close",
	OpIsGenerator:        "is_generator",
	OpAIter:              "aiter",
	OpANext:              "anext",
	OpAllocFuture:        "alloc_future",
	OpCallAsync:          "call_async",
	OpStateSwitch:        "state_switch",
	OpStateTransition:    "state_transition",
	OpStateYield:         "state_yield",
	OpChanNew:            "chan_new",
	OpChanSendYield:      "chan_send_yield",
	OpChanRecvYield:      "chan_recv_yield",
	OpVecSum:             "vec_sum",
	OpVecProd:            "vec_prod",
	OpVecMin:             "vec_min",
	OpVecMax:             "vec_max",
	OpGuardType:          "guard_type",
	OpGuardTag:           "guard_tag",
	OpGuardLayout:        "guard_layout",
	OpGuardDictShape:     "guard_dict_shape",
	OpGuardDictHasKeys:   "guard_dict_has_keys",
	OpGuardLenGe:         "guard_len_ge",
	OpGuardIndexInBounds: "guard_index_in_bounds",
	OpGuardCallee:        "guard_callee",
	OpGuardNe:            "guard_ne",
	OpIncRef:             "inc_ref",
	OpDecRef:             "dec_ref",
	OpBorrow:             "borrow",
	OpRelease:            "release",
	OpBox:                "box",
	OpUnbox:              "unbox",
	OpCast:               "cast",
	OpWiden:              "widen",
	OpStrFromObj:         "str_from_obj",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) && opcodeNames[o] != "" {
		return opcodeNames[o]
	}
	return "unknown_opcode"
}

// isGuard reports whether o is one of the guard primitives of spec.md
// §4.6. Guards are side-effect free and legal only in Tier1 functions.
func (o Opcode) isGuard() bool {
	switch o {
	case OpGuardType, OpGuardTag, OpGuardLayout, OpGuardDictShape,
		OpGuardDictHasKeys, OpGuardLenGe, OpGuardIndexInBounds,
		OpGuardCallee, OpGuardNe:
		return true
	}
	return false
}

// isTerminator reports whether o ends a basic block.
func (o Opcode) isTerminator() bool {
	switch o {
	case OpJump, OpBranch, OpReturn, OpThrow, OpTryStart, OpTryEnd:
		return true
	}
	return false
}

// defaultEffect is the effect class an opcode carries absent any more
// specific per-instruction annotation. The builder always uses it as is;
// OpCallDirect, for instance, is EffectCall whatever the callee's
// declared summary.
func (o Opcode) defaultEffect() EffectClass {
	switch {
	case o.isGuard():
		return EffectPure
	case o == OpAttrLoadGeneric, o == OpAttrLoadFixed, o == OpIndex,
		o == OpLen, o == OpIterNext, o == OpExcLast, o == OpExcKind,
		o == OpExcMessage:
		return EffectReadHeap
	case o == OpAttrStoreGeneric, o == OpAttrStoreFixed, o == OpAlloc,
		o == OpContainerNew, o == OpExcSetCause, o == OpExcContextSet,
		o == OpIncRef, o == OpDecRef:
		return EffectWriteHeap
	case o == OpCallDirect, o == OpCallIndirect, o == OpCallFFIBridge,
		o == OpCallAsync:
		return EffectCall
	case o == OpThrow, o == OpRaise:
		return EffectThrow
	case o == OpStateYield, o == OpChanSendYield, o == OpChanRecvYield:
		return EffectSuspend
	default:
		return EffectPure
	}
}
