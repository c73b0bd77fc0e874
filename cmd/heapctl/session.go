package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/QuangTung97/kheap/allocator"
)

var errUnknownName = errors.New("unknown allocation name")

type liveAlloc struct {
	Addr   uintptr
	Layout allocator.Layout
}

type stepResult struct {
	Line    int                `json:"line"`
	Op      opKind             `json:"op"`
	Name    string             `json:"name,omitempty"`
	Addr    string             `json:"addr,omitempty"`
	OK      bool               `json:"ok"`
	Stats   *allocator.Stats   `json:"stats,omitempty"`
	Regions []allocator.Region `json:"regions,omitempty"`
}

// session replays trace operations against one heap.
type session struct {
	heap *allocator.LockedHeap
	live map[string]liveAlloc
}

func newSession(h *allocator.LockedHeap) *session {
	return &session{
		heap: h,
		live: map[string]liveAlloc{},
	}
}

func (s *session) apply(op traceOp) (stepResult, error) {
	result := stepResult{Line: op.Line, Op: op.Kind, Name: op.Name}

	switch op.Kind {
	case opAlloc:
		if _, exists := s.live[op.Name]; exists {
			return result, fmt.Errorf("line %d: %q is already allocated", op.Line, op.Name)
		}
		l, err := allocator.NewLayout(op.Size, op.Align)
		if err != nil {
			return result, fmt.Errorf("line %d: %w", op.Line, err)
		}
		addr, ok := s.heap.Alloc(l)
		logger.Debug("alloc", "name", op.Name, "size", op.Size, "align", op.Align, "ok", ok, "addr", fmt.Sprintf("%#x", addr))
		result.OK = ok
		if ok {
			result.Addr = fmt.Sprintf("%#x", addr)
			s.live[op.Name] = liveAlloc{Addr: addr, Layout: l}
		}

	case opFree:
		a, exists := s.live[op.Name]
		if !exists {
			return result, fmt.Errorf("line %d: %w: %q", op.Line, errUnknownName, op.Name)
		}
		s.heap.Dealloc(a.Addr, a.Layout)
		delete(s.live, op.Name)
		logger.Debug("free", "name", op.Name, "addr", fmt.Sprintf("%#x", a.Addr))
		result.OK = true
		result.Addr = fmt.Sprintf("%#x", a.Addr)

	case opStats:
		stats := s.heap.Stats()
		result.OK = true
		result.Stats = &stats

	case opRegions:
		result.OK = true
		result.Regions = s.heap.FreeRegions()
	}

	return result, nil
}

func (s *session) run(ops []traceOp) ([]stepResult, error) {
	results := make([]stepResult, 0, len(ops))
	for _, op := range ops {
		r, err := s.apply(op)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// liveNames returns the names still allocated, sorted.
func (s *session) liveNames() []string {
	names := make([]string, 0, len(s.live))
	for name := range s.live {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
