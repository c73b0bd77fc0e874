package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runConf = heapConfig{
	Start: 0x1000,
	Size:  64 << 10,
}

func init() {
	cmd := newRunCmd()
	cmd.Flags().Uint64Var(&runConf.Start, "start", runConf.Start, "Logical start address of the heap")
	cmd.Flags().Uint64Var(&runConf.Size, "size", runConf.Size, "Heap size in bytes")
	cmd.Flags().BoolVar(&runConf.Mmap, "mmap", false, "Back the heap with an anonymous mapping")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay an allocation trace",
		Long: `The run command replays a trace file against a fresh heap.

Trace lines:
  alloc <name> <size> [align]
  free <name>
  stats
  regions

Example:
  heapctl run trace.txt --size 4096
  heapctl run trace.txt --mmap --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, args[0], runConf)
		},
	}
}

func runTrace(cmd *cobra.Command, path string, conf heapConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	ops, err := parseTrace(f)
	if err != nil {
		return fmt.Errorf("failed to parse trace: %w", err)
	}

	h, r, err := newHeap(conf)
	if err != nil {
		return err
	}
	defer r.Close()

	s := newSession(h)
	results, err := s.run(ops)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(w, struct {
			Steps []stepResult `json:"steps"`
			Live  []string     `json:"live"`
			Final interface{}  `json:"final"`
		}{
			Steps: results,
			Live:  s.liveNames(),
			Final: h.Stats(),
		})
	}

	for _, res := range results {
		printStep(w, res)
	}
	fmt.Fprintln(w, "final")
	printStats(w, h.Stats())
	return nil
}
