package chat

import (
	"sort"
	"strings"
)

// BufferTable accumulates streamed text per content slot. A buffer exists
// only while its slot is live; finalizing a slot or ending the turn discards
// it. Buffers are created explicitly on first append rather than on read, so
// touching an unknown slot with Get stays visible as an empty result.
type BufferTable struct {
	buffers map[int]*strings.Builder
}

func NewBufferTable() *BufferTable {
	return &BufferTable{
		buffers: make(map[int]*strings.Builder),
	}
}

// Append concatenates text onto the slot's buffer, creating it if absent.
func (bt *BufferTable) Append(index int, text string) {
	buf, exists := bt.buffers[index]
	if !exists {
		buf = &strings.Builder{}
		bt.buffers[index] = buf
	}
	buf.WriteString(text)
}

// Set replaces the slot's buffer with the given text.
func (bt *BufferTable) Set(index int, text string) {
	buf := &strings.Builder{}
	buf.WriteString(text)
	bt.buffers[index] = buf
}

// Get returns the accumulated content for a slot, or "" if no buffer exists.
func (bt *BufferTable) Get(index int) string {
	if buf, exists := bt.buffers[index]; exists {
		return buf.String()
	}
	return ""
}

// Has reports whether a live buffer exists for the slot.
func (bt *BufferTable) Has(index int) bool {
	_, exists := bt.buffers[index]
	return exists
}

// Clear discards the slot's buffer.
func (bt *BufferTable) Clear(index int) {
	delete(bt.buffers, index)
}

// ClearAll discards every buffer.
func (bt *BufferTable) ClearAll() {
	bt.buffers = make(map[int]*strings.Builder)
}

// Indices returns the live slot indices in ascending order.
func (bt *BufferTable) Indices() []int {
	indices := make([]int, 0, len(bt.buffers))
	for index := range bt.buffers {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

// Len returns the number of live buffers.
func (bt *BufferTable) Len() int {
	return len(bt.buffers)
}
