package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func traceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <scenario>",
		Short: "Run a named scenario and print its wire trace",
		Long: `Run one of the named scenarios directly against the in-process runtime
and engine, then print the opcode trace (or, for the reactivity-only
scenarios, the signal/memo/effect state trace) it produced.

Run 'coretrace list' to see every available scenario.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := findScenario(args[0])
			if !ok {
				return fmt.Errorf("unknown scenario %q (run 'coretrace list' to see available scenarios)", args[0])
			}
			fmt.Print(s.run())
			return nil
		},
	}
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range scenarios {
				info("%-20s %s", s.name, s.description)
			}
		},
	}
}
