// Package audio decodes tracks with beep and feeds the samples to an output.
package audio

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
)

// ErrOutputFull is returned when a write exceeds the free space of an output.
var ErrOutputFull = errors.New("output buffer full")

// Output accepts stereo samples at a fixed rate without blocking.
type Output interface {
	SampleRate() beep.SampleRate
	// Free returns how many samples Write accepts right now.
	Free() int
	Write(samples [][2]float64) error
	// Reset drops queued samples that were not played yet.
	Reset()
	Close() error
}

// queue is a bounded FIFO of samples. It implements beep.Streamer and pads
// with silence when it runs dry, so the speaker never sees the end of it.
type queue struct {
	mu      sync.Mutex
	buf     [][2]float64
	head    int
	size    int
	drained int64
}

var _ beep.Streamer = (*queue)(nil)

func newQueue(capacity int) *queue {
	if capacity < 1 {
		capacity = 1
	}
	return &queue{buf: make([][2]float64, capacity)}
}

func (q *queue) free() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf) - q.size
}

func (q *queue) push(samples [][2]float64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(samples) > len(q.buf)-q.size {
		return errors.Wrapf(ErrOutputFull, "write of %d samples, %d free", len(samples), len(q.buf)-q.size)
	}
	for _, s := range samples {
		q.buf[(q.head+q.size)%len(q.buf)] = s
		q.size++
	}
	return nil
}

func (q *queue) reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.head = 0
	q.size = 0
}

// Stream implements beep.Streamer.
func (q *queue) Stream(samples [][2]float64) (n int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range samples {
		if q.size == 0 {
			samples[i] = [2]float64{}
			continue
		}
		samples[i] = q.buf[q.head]
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		q.drained++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (q *queue) Err() error {
	return nil
}

// DiscardOutput throws samples away. It is used for simulation and on boards
// without audio hardware.
type DiscardOutput struct {
	rate     beep.SampleRate
	capacity int
	written  int64
}

// NewDiscardOutput creates an output that accepts capacity samples per write.
func NewDiscardOutput(rate beep.SampleRate, capacity int) *DiscardOutput {
	return &DiscardOutput{rate: rate, capacity: capacity}
}

func (o *DiscardOutput) SampleRate() beep.SampleRate {
	return o.rate
}

func (o *DiscardOutput) Free() int {
	return o.capacity
}

func (o *DiscardOutput) Write(samples [][2]float64) error {
	if len(samples) > o.capacity {
		return errors.Wrapf(ErrOutputFull, "write of %d samples, %d free", len(samples), o.capacity)
	}
	o.written += int64(len(samples))
	return nil
}

func (o *DiscardOutput) Reset() {}

func (o *DiscardOutput) Close() error {
	return nil
}

// Written returns the number of samples accepted so far.
func (o *DiscardOutput) Written() int64 {
	return o.written
}
