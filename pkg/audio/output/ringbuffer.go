// ABOUTME: Thread-safe ring buffer between a blocking writer and a device callback
// ABOUTME: Writers block while full; the callback zero-fills on underrun
package output

import (
	"sync"
	"time"
)

// RingBuffer provides a thread-safe circular buffer for audio samples
type RingBuffer struct {
	buffer   []float32
	readPos  int
	writePos int
	size     int
	count    int // Number of samples currently in buffer
	closed   bool
	mu       sync.Mutex
	notFull  *sync.Cond
}

// NewRingBuffer creates a ring buffer with given capacity (in samples)
func NewRingBuffer(capacity int) *RingBuffer {
	rb := &RingBuffer{
		buffer: make([]float32, capacity),
		size:   capacity,
	}
	rb.notFull = sync.NewCond(&rb.mu)
	return rb
}

// Write adds as many samples as fit and returns the count
func (rb *RingBuffer) Write(samples []float32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.write(samples)
}

func (rb *RingBuffer) write(samples []float32) int {
	written := 0
	for i := 0; i < len(samples) && rb.count < rb.size; i++ {
		rb.buffer[rb.writePos] = samples[i]
		rb.writePos = (rb.writePos + 1) % rb.size
		rb.count++
		written++
	}
	return written
}

// WriteAll blocks until every sample is queued or the buffer is closed
func (rb *RingBuffer) WriteAll(samples []float32) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for len(samples) > 0 {
		if rb.closed {
			return ErrStreamClosed
		}
		n := rb.write(samples)
		samples = samples[n:]
		if n == 0 {
			rb.notFull.Wait()
		}
	}
	return nil
}

// Read retrieves samples, zero-filling the remainder on underrun
func (rb *RingBuffer) Read(samples []float32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	read := 0
	for i := 0; i < len(samples) && rb.count > 0; i++ {
		samples[i] = rb.buffer[rb.readPos]
		rb.readPos = (rb.readPos + 1) % rb.size
		rb.count--
		read++
	}

	for i := read; i < len(samples); i++ {
		samples[i] = 0
	}

	if read > 0 {
		rb.notFull.Broadcast()
	}
	return read
}

// Available returns the number of samples available to read
func (rb *RingBuffer) Available() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Free returns the number of free slots in the buffer
func (rb *RingBuffer) Free() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size - rb.count
}

// Drain waits until the reader has consumed everything or the timeout passes
func (rb *RingBuffer) Drain(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for rb.Available() > 0 {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
	return true
}

// Close wakes blocked writers; later writes fail with ErrStreamClosed
func (rb *RingBuffer) Close() {
	rb.mu.Lock()
	rb.closed = true
	rb.mu.Unlock()
	rb.notFull.Broadcast()
}
