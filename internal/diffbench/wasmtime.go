//go:build amd64 && cgo

package diffbench

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-go"
)

// NewWasmtimeRunner returns a Runner backed by wasmtime-go, the
// reference engine the teacher's go.mod carries "only used in
// benchmarks" (tetratelabs-wazero/go.mod). Grounded on
// internal/integration_test/vs/wasmtime/wasmtime.go's Instantiate/Call
// shape, trimmed to the single-function all-i64 calling convention
// internal/codegen/wasm emits.
func NewWasmtimeRunner() Runner { return &wasmtimeRunner{} }

type wasmtimeRunner struct{}

func (r *wasmtimeRunner) Name() string { return "wasmtime" }

func (r *wasmtimeRunner) CallI64(wasmBytes []byte, funcName string, args []int64) (int64, error) {
	engine := wasmtime.NewEngine()
	store := wasmtime.NewStore(engine)

	module, err := wasmtime.NewModule(store.Engine, wasmBytes)
	if err != nil {
		return 0, fmt.Errorf("diffbench: wasmtime: compile module: %w", err)
	}
	instance, err := wasmtime.NewInstance(store, module, nil)
	if err != nil {
		return 0, fmt.Errorf("diffbench: wasmtime: instantiate: %w", err)
	}
	fn := instance.GetFunc(store, funcName)
	if fn == nil {
		return 0, fmt.Errorf("diffbench: wasmtime: %q is not an exported function", funcName)
	}

	iArgs := make([]interface{}, len(args))
	for i, a := range args {
		iArgs[i] = a
	}
	result, err := fn.Call(store, iArgs...)
	if err != nil {
		return 0, fmt.Errorf("diffbench: wasmtime: call %q: %w", funcName, err)
	}
	v, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("diffbench: wasmtime: %q returned non-i64 result %T", funcName, result)
	}
	return v, nil
}
