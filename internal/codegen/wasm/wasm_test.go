package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adpena/molt/internal/ssa"
)

func TestMachineEmitsValidModuleHeader(t *testing.T) {
	fn := ssa.NewFunction("add_const", ssa.Tier0, nil, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.SetCurrentBlock(entry)

	c1 := b.NewConstInt(2)
	c2 := b.NewConstInt(3)
	sum := b.NewInstruction(ssa.OpAdd, ssa.TypeI64, c1.Return(), c2.Return(), ssa.ValueInvalid, nil, 0, 0, "")
	b.NewReturn(sum.Return())

	m := NewMachine()
	for _, ins := range entry.Instructions() {
		m.LowerInstr(ins)
	}
	m.RegAlloc()
	m.PostRegAlloc()

	body, err := m.Encode()
	require.NoError(t, err)
	require.NotEmpty(t, body)

	mod := m.EncodeModule(0, "add_const")
	require.Equal(t, []byte(magic), mod[:4])
	require.Equal(t, byte(version), mod[4])
}

func TestLEB128EncodesKnownValues(t *testing.T) {
	require.Equal(t, []byte{0xe5, 0x8e, 0x26}, appendULEB128(nil, 624485))
	require.Equal(t, []byte{0xac, 0x02}, appendULEB128(nil, 300))
	require.Equal(t, []byte{0x7f}, appendSLEB128(nil, -1))
	require.Equal(t, []byte{0x80, 0x7f}, appendSLEB128(nil, -128))
	require.Equal(t, []byte{0x00}, appendSLEB128(nil, 0))
}

func TestModuleEncodesDeterministicExportOrder(t *testing.T) {
	mod := NewModule()
	mod.AddFunction(FuncType{Results: []byte{valtypeI64}}, []byte{opEnd}, "zebra")
	mod.AddFunction(FuncType{Results: []byte{valtypeI64}}, []byte{opEnd}, "alpha")
	a := mod.Encode()
	b := mod.Encode()
	require.Equal(t, a, b)
}
