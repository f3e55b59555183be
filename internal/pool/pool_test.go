package pool

import (
	"bytes"
	"sync"
	"testing"
)

// TestGetBuffer tests that buffers come back empty.
func TestGetBuffer(t *testing.T) {
	buf := GetBuffer()
	if buf == nil {
		t.Fatal("GetBuffer returned nil")
	}
	if buf.Len() != 0 {
		t.Errorf("new buffer has length %d", buf.Len())
	}

	buf.WriteString("BEGIN:VCARD")
	PutBuffer(buf)

	again := GetBuffer()
	if again.Len() != 0 {
		t.Errorf("reused buffer has length %d", again.Len())
	}
	PutBuffer(again)
}

// TestPutBuffer_Large tests that oversized buffers are not pooled.
func TestPutBuffer_Large(t *testing.T) {
	big := bytes.NewBuffer(make([]byte, 0, 1<<20))
	PutBuffer(big) // dropped
	PutBuffer(nil) // ignored

	for i := 0; i < 8; i++ {
		buf := GetBuffer()
		if buf.Cap() > 64*1024 {
			t.Fatalf("pool returned buffer with capacity %d", buf.Cap())
		}
		PutBuffer(buf)
	}
}

// TestGetLines tests the line slice pool.
func TestGetLines(t *testing.T) {
	lines := GetLines()
	if len(lines) != 0 {
		t.Fatalf("GetLines returned length %d", len(lines))
	}
	lines = append(lines, "BEGIN:VCARD", "END:VCARD")
	PutLines(lines)

	again := GetLines()
	if len(again) != 0 {
		t.Errorf("reused slice has length %d", len(again))
	}
	for _, l := range again[:cap(again)] {
		if l != "" {
			t.Errorf("pooled slice kept reference to %q", l)
		}
	}
	PutLines(again)

	PutLines(make([]string, 0, 4096)) // too large, dropped
}

// TestPool_Concurrent tests pool usage from many goroutines.
func TestPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf := GetBuffer()
				buf.WriteString("FN:John")
				if buf.String() != "FN:John" {
					t.Errorf("buffer shared between goroutines: %q", buf.String())
				}
				PutBuffer(buf)

				lines := append(GetLines(), "x")
				PutLines(lines)
			}
		}()
	}
	wg.Wait()
}
