package objmodel

// Header is the fixed 24-byte header that precedes every handle-addressed
// heap object, per spec.md §3.2. Field widths are documented rather than
// enforced by the Go type system (we use native-width fields for
// efficiency); codegen treats HeaderSize as a runtime constant.
type Header struct {
	TypeID        uint32
	ClassVersion  uint32
	RCStrong      uint32
	RCWeak        uint32
	Flags         Flags
	Gen           uint32
}

// HeaderSize is the constant exposed to codegen for computing payload
// offsets.
const HeaderSize = 24 // 6 x uint32 fields.

// Flags holds the header bit flags.
type Flags uint32

const (
	FlagTracked Flags = 1 << iota
	FlagRooted
	FlagImmortal
	FlagCycleCandidate
	FlagTrustedLayout
	FlagFinalized
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// PayloadKind discriminates the shape of an Object's payload, per spec.md
// §3.2's enumeration of payload layouts.
type PayloadKind uint8

const (
	PayloadFixedStruct PayloadKind = iota
	PayloadSequence
	PayloadHashMap
	PayloadBoxedFloat
	PayloadBigInt
	PayloadClosure
	PayloadCoroutine
	PayloadChannel
	PayloadFuture
)

// Payload is implemented by every concrete heap payload type.
type Payload interface {
	Kind() PayloadKind
}

// Object is a handle-addressed heap object: a Header plus a type-specific
// Payload.
type Object struct {
	Header  Header
	Payload Payload
}

// FixedStruct is a class instance with a known, fixed attribute-slot
// layout (a "structified" class, per spec.md §3.4/§9).
type FixedStruct struct {
	ClassID uint32
	Slots   []Value
}

func (*FixedStruct) Kind() PayloadKind { return PayloadFixedStruct }

// Sequence backs list/bytes/str/bytearray: a variable-length run of
// Values (lists) or raw bytes (bytes/str/bytearray).
type Sequence struct {
	Elems []Value
	Bytes []byte
	IsRaw bool // true for bytes/str/bytearray, false for list
}

func (*Sequence) Kind() PayloadKind { return PayloadSequence }

// HashMap backs dict/set.
type HashMap struct {
	IsSet bool
	Keys  []Value
	Vals  []Value // empty for sets
	index map[Value]int
}

func (*HashMap) Kind() PayloadKind { return PayloadHashMap }

// BoxedFloat backs a heap-allocated float64 (not reachable via NaN-boxing
// alone once captured by reference semantics requiring identity).
type BoxedFloat struct {
	F float64
}

func (*BoxedFloat) Kind() PayloadKind { return PayloadBoxedFloat }

// BigInt backs an arbitrary-precision integer outside the Int47 fast path.
type BigInt struct {
	Sign  int8
	Limbs []uint32
}

func (*BigInt) Kind() PayloadKind { return PayloadBigInt }

// Closure backs a function value with captured upvalues.
type Closure struct {
	FuncRef   uint32
	Upvalues  []Value
}

func (*Closure) Kind() PayloadKind { return PayloadClosure }

// Coroutine backs a generator/async-function frame: an encoded resume
// target and a locals area, per spec.md §4.7.
type Coroutine struct {
	ResumeTarget int32
	Locals       []Value
	Done         bool
}

func (*Coroutine) Kind() PayloadKind { return PayloadCoroutine }

// Channel backs an unbounded cooperative channel with a waiter set.
type Channel struct {
	Queue   []Value
	Closed  bool
	Waiters []Handle
}

func (*Channel) Kind() PayloadKind { return PayloadChannel }

// Future backs an async result with a poll vtable.
type Future struct {
	Poll func() (Value, bool) // returns (result, ready)
}

func (*Future) Kind() PayloadKind { return PayloadFuture }
