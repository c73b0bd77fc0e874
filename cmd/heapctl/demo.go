package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type demoScenario struct {
	name  string
	size  uint64
	trace string
}

var demoScenarios = []demoScenario{
	{
		name: "round-trip",
		size: 4096,
		trace: `alloc a 64 8
free a
alloc b 64 8`,
	},
	{
		name: "fragmentation",
		size: 64,
		trace: `alloc a 32 8
alloc b 32 8
free a
free b
alloc c 48 8
regions`,
	},
	{
		name: "out-of-memory",
		size: 64,
		trace: `alloc a 100 8`,
	},
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Run the built-in allocation scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout())
		},
	})
}

func runDemo(w io.Writer) error {
	for _, sc := range demoScenarios {
		fmt.Fprintf(w, "== %s (heap %s)\n", sc.name, formatBytes(uintptr(sc.size)))

		ops, err := parseTrace(strings.NewReader(sc.trace))
		if err != nil {
			return fmt.Errorf("%s: %w", sc.name, err)
		}

		h, r, err := newHeap(heapConfig{Start: 0x1000, Size: sc.size})
		if err != nil {
			return fmt.Errorf("%s: %w", sc.name, err)
		}

		results, err := newSession(h).run(ops)
		r.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", sc.name, err)
		}
		for _, res := range results {
			printStep(w, res)
		}
	}
	return nil
}
