package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adpena/molt/internal/async"
	"github.com/adpena/molt/internal/objmodel"
	"github.com/adpena/molt/internal/runtimestate"
)

func runRun(cmd *cobra.Command, args []string) error {
	rt, tok := runtimestate.New(func(uint32) (bool, func(*objmodel.Object) []objmodel.Value) {
		return false, nil
	})

	sched := async.NewScheduler()
	const demoCoroutines = 3

	for i := int32(1); i <= demoCoroutines; i++ {
		i := i
		sm := &async.StateMachine{
			Coroutine: &objmodel.Coroutine{},
			Step: func(resume int32, locals []objmodel.Value) (int32, async.PollResult) {
				return async.EncodeResumeTarget(1), async.PollResult{
					Done:  true,
					Value: objmodel.BoxInt47(int64(i) * 10),
				}
			},
		}
		sched.Enqueue(sm)
	}

	err := rt.WithGIL(tok, func() error {
		return sched.RunReady()
	})
	if err != nil {
		return fmt.Errorf("moltc: run demo workload: %w", err)
	}

	fmt.Printf("moltc: ran %d demo coroutines under one RuntimeState\n", demoCoroutines)
	return rt.Shutdown(tok)
}
