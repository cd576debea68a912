// ABOUTME: Tests for the output ring buffer
// ABOUTME: Tests wraparound, underrun zero-fill and blocking writes
package output

import (
	"errors"
	"testing"
	"time"
)

func TestRingBufferWriteRead(t *testing.T) {
	rb := NewRingBuffer(4)

	if n := rb.Write([]float32{1, 2, 3}); n != 3 {
		t.Fatalf("expected 3 written, got %d", n)
	}
	if rb.Free() != 1 {
		t.Errorf("expected 1 free slot, got %d", rb.Free())
	}

	out := make([]float32, 2)
	if n := rb.Read(out); n != 2 || out[0] != 1 || out[1] != 2 {
		t.Fatalf("unexpected read: n=%d out=%v", n, out)
	}

	// Wraps around the end of the backing array
	if n := rb.Write([]float32{4, 5, 6}); n != 3 {
		t.Fatalf("expected 3 written after wrap, got %d", n)
	}

	out = make([]float32, 4)
	rb.Read(out)
	want := []float32{3, 4, 5, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestRingBufferUnderrunZeroFills(t *testing.T) {
	rb := NewRingBuffer(8)
	rb.Write([]float32{0.5})

	out := []float32{9, 9, 9}
	if n := rb.Read(out); n != 1 {
		t.Fatalf("expected 1 sample read, got %d", n)
	}
	if out[0] != 0.5 || out[1] != 0 || out[2] != 0 {
		t.Errorf("expected zero fill after underrun, got %v", out)
	}
}

func TestRingBufferWriteAllBlocksUntilRead(t *testing.T) {
	rb := NewRingBuffer(4)
	done := make(chan error, 1)

	go func() {
		done <- rb.WriteAll([]float32{1, 2, 3, 4, 5, 6})
	}()

	select {
	case <-done:
		t.Fatal("WriteAll returned before space was freed")
	case <-time.After(50 * time.Millisecond):
	}

	rb.Read(make([]float32, 4))

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WriteAll failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WriteAll did not complete after read")
	}

	if rb.Available() != 2 {
		t.Errorf("expected 2 samples queued, got %d", rb.Available())
	}
}

func TestRingBufferCloseUnblocksWriter(t *testing.T) {
	rb := NewRingBuffer(2)
	rb.Write([]float32{1, 2})
	done := make(chan error, 1)

	go func() {
		done <- rb.WriteAll([]float32{3})
	}()

	time.Sleep(20 * time.Millisecond)
	rb.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrStreamClosed) {
			t.Fatalf("expected ErrStreamClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock writer")
	}
}

func TestRingBufferDrain(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]float32{1, 2})

	if rb.Drain(20 * time.Millisecond) {
		t.Error("expected drain to time out with nobody reading")
	}

	rb.Read(make([]float32, 2))
	if !rb.Drain(20 * time.Millisecond) {
		t.Error("expected drain to succeed once empty")
	}
}
