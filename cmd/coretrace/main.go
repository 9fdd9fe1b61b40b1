// Command coretrace drives the reactive runtime and create/diff engine
// in-process and prints the resulting wire-protocol mutation trace, with no
// browser or WASM host involved. It exists to make the six end-to-end
// scenarios runnable and inspectable from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const banner = `
  ┌─┐┌─┐┬─┐┌─┐┌┬┐┬─┐┌─┐┌─┐┌─┐
  │  │ │├┬┘├┤  │ ├┬┘├─┤│  ├┤
  └─┘└─┘┴└─└─┘ ┴ ┴└─┴ ┴└─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "coretrace",
		Short: "Inspect the reactive runtime's wire-protocol output",
		Long: `coretrace runs named scenarios directly against the signal graph,
scheduler, and create/diff engine, then prints the opcode trace each one
produces — no browser or WASM host required.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		traceCmd(),
		listCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
