package native

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adpena/molt/internal/ssa"
)

func TestMachineLowersConstAddReturn(t *testing.T) {
	fn := ssa.NewFunction("add_const", ssa.Tier0, nil, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.SetCurrentBlock(entry)

	c1 := b.NewConstInt(2)
	c2 := b.NewConstInt(3)
	sum := b.NewInstruction(ssa.OpAdd, ssa.TypeI64, c1.Return(), c2.Return(), ssa.ValueInvalid, nil, 0, 0, "")
	b.NewReturn(sum.Return())

	m, err := NewMachine()
	require.NoError(t, err)
	m.SetCompiler(nil)

	for _, ins := range entry.Instructions() {
		m.LowerInstr(ins)
	}
	m.RegAlloc()
	m.PostRegAlloc()

	code, err := m.Encode()
	require.NoError(t, err)
	require.NotEmpty(t, code)
	require.Contains(t, m.Format(), "spill slots")
}

func TestMapExecutableRejectsEmptyCode(t *testing.T) {
	_, err := MapExecutable(nil)
	require.Error(t, err)
}
