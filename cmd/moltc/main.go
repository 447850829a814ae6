// Command moltc is the packaging/driver CLI spec.md §1 explicitly scopes
// out of the core ("the command-line driver and packaging tooling...
// treated as external collaborators. The core consumes only the
// contracts defined for them in §6."). It only calls exported entry
// points of the core packages; no compiler/runtime logic lives here.
//
// Cobra-based subcommand layout grounded on saferwall-pe's cmd/pedumper.go
// (root command + subcommands, package-level flag vars, Execute/os.Exit
// error handling).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	target      string
	outPath     string
	feedbackOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moltc",
		Short: "Molt compiler and runtime driver",
		Long:  "moltc compiles a built-in demo function to native or WASM code, runs a demo async workload, and validates or writes the TFA and feedback artifacts.",
	}

	compileCmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the demo function to the selected target",
		RunE:  runCompile,
	}
	compileCmd.Flags().StringVar(&target, "target", "native", "compilation target: native or wasm")
	compileCmd.Flags().StringVar(&outPath, "out", "a.out", "output path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo async workload under a RuntimeState",
		RunE:  runRun,
	}

	emitTFACmd := &cobra.Command{
		Use:   "emit-tfa",
		Short: "Validate and pretty-print a Type Facts Artifact",
		Args:  cobra.ExactArgs(1),
		RunE:  runEmitTFA,
	}

	emitFeedbackCmd := &cobra.Command{
		Use:   "emit-feedback",
		Short: "Write a guard-feedback JSON artifact from a fresh, empty counter set",
		RunE:  runEmitFeedback,
	}
	emitFeedbackCmd.Flags().StringVar(&feedbackOut, "out", "feedback.json", "output path")

	rootCmd.AddCommand(compileCmd, runCmd, emitTFACmd, emitFeedbackCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
