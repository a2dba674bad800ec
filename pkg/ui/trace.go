package ui

import (
	"sync"
	"time"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 16667 * time.Microsecond
)

// FramePhaseTimings captures time spent in each pass of a tick (ms).
type FramePhaseTimings struct {
	ProxyMs         float64 `json:"proxyMs"`
	DispatchMs      float64 `json:"dispatchMs"`
	BindingsMs      float64 `json:"bindingsMs"`
	CascadeMs       float64 `json:"cascadeMs"`
	LayoutMs        float64 `json:"layoutMs"`
	AnimateMs       float64 `json:"animateMs"`
	AccessibilityMs float64 `json:"accessibilityMs"`
}

// FrameCounts captures per-tick workload indicators.
type FrameCounts struct {
	Proxied       int `json:"proxied"`
	Events        int `json:"events"`
	Bindings      int `json:"bindings"`
	Restyled      int `json:"restyled"`
	Relayout      int `json:"relayout"`
	LayoutChanged int `json:"layoutChanged"`
	Animated      int `json:"animated"`
	A11yNodes     int `json:"a11yNodes"`
	Entities      int `json:"entities"`
}

// FrameSample is a single tick trace sample.
type FrameSample struct {
	Frame     uint64            `json:"frame"`
	Timestamp int64             `json:"ts"`
	FrameMs   float64           `json:"frameMs"`
	Phases    FramePhaseTimings `json:"phases"`
	Counts    FrameCounts       `json:"counts"`
}

// FrameTimeline is a chronological copy of the trace.
type FrameTimeline struct {
	Samples       []FrameSample `json:"samples"`
	DroppedFrames int           `json:"droppedFrames"`
	ThresholdMs   float64       `json:"thresholdMs"`
}

// FrameTraceBuffer stores recent frame samples in a ring buffer. It may be
// read from other goroutines while the UI goroutine records.
type FrameTraceBuffer struct {
	mu        sync.RWMutex
	samples   []FrameSample
	index     int
	count     int
	dropped   int
	threshold time.Duration
}

// NewFrameTraceBuffer creates a new frame trace buffer.
func NewFrameTraceBuffer(capacity int, threshold time.Duration) *FrameTraceBuffer {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &FrameTraceBuffer{
		samples:   make([]FrameSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *FrameTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Threshold returns the dropped frame threshold.
func (b *FrameTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a frame sample and updates the dropped frame count.
func (b *FrameTraceBuffer) Add(sample FrameSample, frameDuration time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if frameDuration > b.threshold {
		b.dropped++
	}
	b.mu.Unlock()
}

// Last returns the most recent sample.
func (b *FrameTraceBuffer) Last() (FrameSample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.count == 0 {
		return FrameSample{}, false
	}
	i := (b.index - 1 + len(b.samples)) % len(b.samples)
	return b.samples[i], true
}

// Snapshot returns a chronological copy of samples and stats.
func (b *FrameTraceBuffer) Snapshot() FrameTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return FrameTimeline{ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]FrameSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return FrameTimeline{
		Samples:       result,
		DroppedFrames: b.dropped,
		ThresholdMs:   durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
