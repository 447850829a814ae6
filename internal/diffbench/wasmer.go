//go:build amd64 && cgo && !windows

package diffbench

import (
	"fmt"

	"github.com/wasmerio/wasmer-go/wasmer"
)

// NewWasmerRunner returns a Runner backed by wasmer-go, the second
// reference engine spec.md's differential contract calls for — a
// wasmtime/wasmer divergence flags a harness bug rather than a Molt
// backend bug, since neither reference engine shares any code with
// internal/codegen/wasm. Grounded on
// internal/integration_test/vs/wasmer/wasmer.go's Instantiate/Call
// shape.
func NewWasmerRunner() Runner { return &wasmerRunner{} }

type wasmerRunner struct{}

func (r *wasmerRunner) Name() string { return "wasmer" }

func (r *wasmerRunner) CallI64(wasmBytes []byte, funcName string, args []int64) (int64, error) {
	store := wasmer.NewStore(wasmer.NewEngine())

	module, err := wasmer.NewModule(store, wasmBytes)
	if err != nil {
		return 0, fmt.Errorf("diffbench: wasmer: compile module: %w", err)
	}
	instance, err := wasmer.NewInstance(module, wasmer.NewImportObject())
	if err != nil {
		return 0, fmt.Errorf("diffbench: wasmer: instantiate: %w", err)
	}
	fn, err := instance.Exports.GetRawFunction(funcName)
	if err != nil {
		return 0, fmt.Errorf("diffbench: wasmer: %q is not an exported function: %w", funcName, err)
	}

	iArgs := make([]interface{}, len(args))
	for i, a := range args {
		iArgs[i] = a
	}
	result, err := fn.Call(iArgs...)
	if err != nil {
		return 0, fmt.Errorf("diffbench: wasmer: call %q: %w", funcName, err)
	}
	v, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("diffbench: wasmer: %q returned non-i64 result %T", funcName, result)
	}
	return v, nil
}
