// Package pool holds the sync.Pools shared by the writer.
package pool

import (
	"bytes"
	"sync"
)

// bufferPool is a sync.Pool for *bytes.Buffer used to render cards.
var bufferPool = sync.Pool{
	New: func() interface{} {
		// Pre-allocate for a typical card with a few contact properties
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// linePool is a sync.Pool for []string slices holding the lines of one card.
var linePool = sync.Pool{
	New: func() interface{} {
		s := make([]string, 0, 16)
		return &s
	},
}

// GetBuffer gets an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool.
// Buffers that grew past the limit are dropped, so a card with a large
// photo does not pin its memory.
func PutBuffer(buf *bytes.Buffer) {
	const maxCapacity = 64 * 1024
	if buf == nil || buf.Cap() > maxCapacity {
		return
	}
	bufferPool.Put(buf)
}

// GetLines gets a []string slice from the pool.
// The slice is returned with length 0 but may have capacity.
func GetLines() []string {
	p := linePool.Get().(*[]string)
	return (*p)[:0]
}

// PutLines returns a []string slice to the pool.
func PutLines(lines []string) {
	const maxCapacity = 1024
	if cap(lines) > maxCapacity {
		return
	}

	// Drop string references before reuse
	clear(lines)
	lines = lines[:0]

	linePool.Put(&lines)
}
