package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adpena/molt/internal/feedback"
	"github.com/adpena/molt/internal/guard"
	"github.com/adpena/molt/internal/tfa"
)

// runEmitTFA loads and validates the Type Facts Artifact at args[0],
// then re-encodes it to stdout. A malformed artifact is reported as an
// error rather than partially accepted, matching spec.md §6's "any
// unsupported construct is a compile-time error, never a silent
// fallback."
func runEmitTFA(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("moltc: open %s: %w", args[0], err)
	}
	defer f.Close()

	artifact, err := tfa.Load(f)
	if err != nil {
		return fmt.Errorf("moltc: load tfa: %w", err)
	}
	if err := artifact.Encode(os.Stdout); err != nil {
		return fmt.Errorf("moltc: encode tfa: %w", err)
	}
	return nil
}

// runEmitFeedback writes an empty guard-feedback snapshot to
// feedbackOut. In a full build this would run against the counters a
// live RuntimeState accumulated; this CLI carries no persistent runtime
// between invocations, so the snapshot demonstrates the artifact shape
// rather than real accumulated counts.
func runEmitFeedback(cmd *cobra.Command, args []string) error {
	counters := guard.NewCounters()
	artifact := feedback.Snapshot(counters)

	out, err := os.Create(feedbackOut)
	if err != nil {
		return fmt.Errorf("moltc: create %s: %w", feedbackOut, err)
	}
	defer out.Close()

	if err := feedback.Write(out, artifact); err != nil {
		return fmt.Errorf("moltc: write feedback: %w", err)
	}
	fmt.Printf("moltc: wrote feedback artifact to %s\n", feedbackOut)
	return nil
}
