package pactconsumer

import "strings"

// headerIndices assigns the next zero-based occurrence index to each header
// name, so multi-valued headers are recorded by the server in declaration
// order. Names are matched case-insensitively. One instance belongs to one
// builder; it must only be driven from a single fluent call sequence.
type headerIndices struct {
	next map[string]int
}

func newHeaderIndices() *headerIndices {
	return &headerIndices{next: map[string]int{}}
}

func (h *headerIndices) nextIndex(name string) int {
	key := strings.ToLower(name)
	index := h.next[key]
	h.next[key] = index + 1
	return index
}
