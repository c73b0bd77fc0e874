package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type opKind string

const (
	opAlloc   opKind = "alloc"
	opFree    opKind = "free"
	opStats   opKind = "stats"
	opRegions opKind = "regions"
)

type traceOp struct {
	Line  int
	Kind  opKind
	Name  string
	Size  uintptr
	Align uintptr
}

// parseTrace reads one operation per line:
//
//	alloc <name> <size> [align]
//	free <name>
//	stats
//	regions
//
// Blank lines and lines starting with '#' are ignored. align defaults to 8.
func parseTrace(r io.Reader) ([]traceOp, error) {
	var ops []traceOp

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		op := traceOp{Line: lineNo, Kind: opKind(fields[0])}

		switch op.Kind {
		case opAlloc:
			if len(fields) != 3 && len(fields) != 4 {
				return nil, fmt.Errorf("line %d: usage: alloc <name> <size> [align]", lineNo)
			}
			op.Name = fields[1]
			size, err := parseUintptr(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad size: %w", lineNo, err)
			}
			op.Size = size
			op.Align = 8
			if len(fields) == 4 {
				align, err := parseUintptr(fields[3])
				if err != nil {
					return nil, fmt.Errorf("line %d: bad align: %w", lineNo, err)
				}
				op.Align = align
			}

		case opFree:
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: usage: free <name>", lineNo)
			}
			op.Name = fields[1]

		case opStats, opRegions:
			if len(fields) != 1 {
				return nil, fmt.Errorf("line %d: %s takes no arguments", lineNo, op.Kind)
			}

		default:
			return nil, fmt.Errorf("line %d: unknown operation %q", lineNo, fields[0])
		}

		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

func parseUintptr(s string) (uintptr, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return uintptr(v), nil
}
