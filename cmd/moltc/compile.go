package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adpena/molt/internal/codegen/native"
	"github.com/adpena/molt/internal/codegen/wasm"
	"github.com/adpena/molt/internal/midend"
	"github.com/adpena/molt/internal/ssa"
)

// demoFunction builds a tiny function that returns 1 + 1 (its two i64
// params are declared but unused). There is no
// source-language frontend in this core (spec.md §1 treats it as an
// external collaborator), so compile demonstrates the pipeline
// (SSA construction -> mid-end -> backend) against a synthetic function
// rather than parsing program text.
func demoFunction() *ssa.Function {
	fn := ssa.NewFunction("demo_add", ssa.Tier0, []ssa.Type{ssa.TypeI64, ssa.TypeI64}, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.SetCurrentBlock(entry)

	c1 := b.NewConstInt(1)
	sum := b.NewInstruction(ssa.OpAdd, ssa.TypeI64, c1.Return(), c1.Return(), ssa.ValueInvalid, nil, 0, 0, "")
	b.NewReturn(sum.Return())
	return fn
}

func runCompile(cmd *cobra.Command, args []string) error {
	fn := demoFunction()
	midend.Run(fn)

	var code []byte
	switch target {
	case "native":
		m, err := native.NewMachine()
		if err != nil {
			return fmt.Errorf("moltc: new native machine: %w", err)
		}
		for _, ins := range fn.EntryBlock().Instructions() {
			m.LowerInstr(ins)
		}
		m.RegAlloc()
		m.PostRegAlloc()
		code, err = m.Encode()
		if err != nil {
			return fmt.Errorf("moltc: encode native: %w", err)
		}
	case "wasm":
		m := wasm.NewMachine()
		for _, ins := range fn.EntryBlock().Instructions() {
			m.LowerInstr(ins)
		}
		m.RegAlloc()
		m.PostRegAlloc()
		code = m.EncodeModule(len(fn.Params), fn.Name)
	default:
		return fmt.Errorf("moltc: unknown target %q (want native or wasm)", target)
	}

	if err := os.WriteFile(outPath, code, 0o755); err != nil {
		return fmt.Errorf("moltc: write %s: %w", outPath, err)
	}
	fmt.Printf("moltc: wrote %d bytes to %s (%s)\n", len(code), outPath, target)
	return nil
}
