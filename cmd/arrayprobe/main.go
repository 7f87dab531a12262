// Command arrayprobe is a small diagnostic CLI for exploring one
// in-place array instance interactively. It is not the benchmark
// harness — that scenario/CSV-driving tool remains an external
// collaborator — it is a thin wrapper over the library's own contract,
// useful for manually reproducing a suspicious sequence of operations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arrayprobe",
	Short: "Drive a single in-place initializable array instance",
	Long: `arrayprobe constructs one array instance and runs a sequence of
init/read/write/verify operations against it, printing the result of
each step and the final instrumentation counters.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
