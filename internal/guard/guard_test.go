package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adpena/molt/internal/ssa"
)

func TestEmitGuardAndValidateTier1(t *testing.T) {
	fn := ssa.NewFunction("speculative", ssa.Tier1, []ssa.Type{ssa.TypeValue}, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	deoptTarget := b.AllocateBasicBlock()
	b.Seal(deoptTarget)

	subject := entry.Params()[0]
	g := Emit(b, ReasonTypeMismatch, subject, 7, deoptTarget, "site:0")
	require.True(t, g.IsGuard())
	require.Equal(t, deoptTarget, g.DeoptTarget())
	require.Equal(t, "guard_type_mismatch", g.DeoptReason())

	require.NoError(t, ValidateFunction(fn))
}

func TestValidateFunctionRejectsTier0Guard(t *testing.T) {
	fn := ssa.NewFunction("strict", ssa.Tier0, []ssa.Type{ssa.TypeValue}, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	deoptTarget := b.AllocateBasicBlock()
	b.Seal(deoptTarget)
	Emit(b, ReasonTypeMismatch, entry.Params()[0], 1, deoptTarget, "site:0")

	require.Error(t, ValidateFunction(fn))
}

func TestValidateFunctionRejectsMissingDeoptTarget(t *testing.T) {
	fn := ssa.NewFunction("speculative", ssa.Tier1, []ssa.Type{ssa.TypeValue}, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	g := b.NewInstruction(ssa.OpGuardType, ssa.Type(0), entry.Params()[0], ssa.ValueInvalid, ssa.ValueInvalid, nil, 1, 0, "site:0")
	_ = g
	require.Error(t, ValidateFunction(fn))
}

func TestCountersSnapshot(t *testing.T) {
	c := NewCounters()
	c.Bump("site:0", ReasonTypeMismatch)
	c.Bump("site:0", ReasonTypeMismatch)
	c.Bump("site:1", ReasonIndexOutOfBounds)

	snap := c.Snapshot()
	require.Equal(t, uint64(2), snap["site:0"]["guard_type_mismatch"])
	require.Equal(t, uint64(1), snap["site:1"]["guard_index_out_of_bounds"])
}

func TestTransfersCollectsDeoptEdges(t *testing.T) {
	fn := ssa.NewFunction("speculative", ssa.Tier1, []ssa.Type{ssa.TypeValue}, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)
	deoptTarget := b.AllocateBasicBlock()
	b.Seal(deoptTarget)
	Emit(b, ReasonTagMismatch, entry.Params()[0], 3, deoptTarget, "site:0")

	transfers := Transfers(fn)
	require.Len(t, transfers, 1)
	require.Equal(t, deoptTarget, transfers[0].Target)
	require.Equal(t, "guard_tag_type_mismatch", transfers[0].Reason)
}
