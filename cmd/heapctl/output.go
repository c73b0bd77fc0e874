package main

import (
	"fmt"
	"io"

	"github.com/QuangTung97/kheap/allocator"
)

func printStats(w io.Writer, stats allocator.Stats) {
	fmt.Fprintf(w, "  heap size:     %s\n", formatBytes(stats.HeapSize))
	fmt.Fprintf(w, "  free:          %s in %d region(s)\n", formatBytes(stats.FreeBytes), stats.FreeRegions)
	fmt.Fprintf(w, "  largest free:  %s\n", formatBytes(stats.LargestFree))
	fmt.Fprintf(w, "  used:          %s in %d allocation(s)\n", formatBytes(stats.UsedBytes), stats.Allocations)
	if stats.PaddingBytes > 0 {
		fmt.Fprintf(w, "  lost padding:  %s\n", formatBytes(stats.PaddingBytes))
	}
}

func printRegions(w io.Writer, regions []allocator.Region) {
	if len(regions) == 0 {
		fmt.Fprintln(w, "  (no free regions)")
		return
	}
	for _, r := range regions {
		fmt.Fprintf(w, "  [%#x, %#x) %s\n", r.Start, r.End(), formatBytes(r.Size))
	}
}

func printStep(w io.Writer, r stepResult) {
	switch r.Op {
	case opAlloc:
		if r.OK {
			fmt.Fprintf(w, "%4d alloc %s -> %s\n", r.Line, r.Name, r.Addr)
		} else {
			fmt.Fprintf(w, "%4d alloc %s -> out of memory\n", r.Line, r.Name)
		}
	case opFree:
		fmt.Fprintf(w, "%4d free %s (%s)\n", r.Line, r.Name, r.Addr)
	case opStats:
		fmt.Fprintf(w, "%4d stats\n", r.Line)
		printStats(w, *r.Stats)
	case opRegions:
		fmt.Fprintf(w, "%4d regions\n", r.Line)
		printRegions(w, r.Regions)
	}
}
