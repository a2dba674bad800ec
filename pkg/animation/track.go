// Package animation provides time-driven interpolation for style values.
//
// # Core Components
//
//   - [Track]: one running interpolation. A track turns elapsed frame time
//     into eased progress in [0, 1] with a gween tween and hands that progress
//     to an apply callback, which typically writes an interpolated style value.
//
//   - [Timeline]: an owned set of tracks keyed by a comparable key (for style
//     transitions the key is entity + property). Starting a track for a key
//     that is already animating replaces it. The frame pipeline calls
//     [Timeline.Step] once per tick.
//
//   - [Tween]: maps progress onto any value type through a Lerp function.
//
//   - Curves: [Ease], [EaseIn], [EaseOut], [EaseInOut], [CubicBezier] and the
//     gween easings, all reachable by keyword through [ParseEasing].
//
// There is no global animation registry: each UI context owns its timeline.
package animation

import (
	"fmt"
	"slices"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Status represents the current state of a track.
//
//	Pending ──(delay elapsed)──► Running ──(duration elapsed)──► Completed
//	   │                            │
//	   └────────── Cancel() ────────┴──────────────────────────► Cancelled
type Status int

const (
	// StatusPending means the track is waiting out its delay.
	StatusPending Status = iota
	// StatusRunning means the track is interpolating.
	StatusRunning
	// StatusCompleted means the track reached progress 1.
	StatusCompleted
	// StatusCancelled means the track was stopped before completing.
	StatusCancelled
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Track drives one interpolation from progress 0 to 1.
type Track struct {
	Duration time.Duration
	Delay    time.Duration

	tween   *gween.Tween
	elapsed time.Duration
	status  Status
	apply   func(progress float64)
	onDone  func()
}

// NewTrack creates a track that calls apply with eased progress on every step.
// A nil easing means linear.
func NewTrack(duration, delay time.Duration, easing ease.TweenFunc, apply func(progress float64)) *Track {
	if easing == nil {
		easing = ease.Linear
	}
	return &Track{
		Duration: duration,
		Delay:    delay,
		tween:    gween.New(0, 1, float32(duration.Seconds()), easing),
		apply:    apply,
	}
}

// OnDone registers a callback invoked once when the track completes.
func (t *Track) OnDone(fn func()) *Track {
	t.onDone = fn
	return t
}

// Status returns the track's current status.
func (t *Track) Status() Status {
	return t.status
}

// Finished reports whether the track completed or was cancelled.
func (t *Track) Finished() bool {
	return t.status == StatusCompleted || t.status == StatusCancelled
}

// Advance moves the track forward by dt and applies the new progress.
func (t *Track) Advance(dt time.Duration) Status {
	if t.Finished() {
		return t.status
	}
	t.elapsed += dt
	if t.elapsed < t.Delay {
		t.status = StatusPending
		return t.status
	}
	t.status = StatusRunning
	run := t.elapsed - t.Delay
	if t.Duration <= 0 || run >= t.Duration {
		t.finish()
		return t.status
	}
	progress, finished := t.tween.Set(float32(run.Seconds()))
	if finished {
		t.finish()
		return t.status
	}
	if t.apply != nil {
		t.apply(float64(progress))
	}
	return t.status
}

func (t *Track) finish() {
	if t.apply != nil {
		t.apply(1)
	}
	t.status = StatusCompleted
	if t.onDone != nil {
		t.onDone()
	}
}

// Cancel stops the track without applying further progress.
func (t *Track) Cancel() {
	if !t.Finished() {
		t.status = StatusCancelled
	}
}

// Timeline owns the running tracks of one UI context.
type Timeline[K comparable] struct {
	tracks map[K]*Track
	order  []K
}

// NewTimeline creates an empty timeline.
func NewTimeline[K comparable]() *Timeline[K] {
	return &Timeline[K]{tracks: make(map[K]*Track)}
}

// Start runs track under key, cancelling any track already running for it.
func (tl *Timeline[K]) Start(key K, track *Track) {
	if old, ok := tl.tracks[key]; ok {
		old.Cancel()
	} else {
		tl.order = append(tl.order, key)
	}
	tl.tracks[key] = track
}

// Get returns the track running under key.
func (tl *Timeline[K]) Get(key K) (*Track, bool) {
	t, ok := tl.tracks[key]
	return t, ok
}

// Cancel stops and forgets the track under key.
func (tl *Timeline[K]) Cancel(key K) bool {
	t, ok := tl.tracks[key]
	if !ok {
		return false
	}
	t.Cancel()
	delete(tl.tracks, key)
	tl.order = slices.DeleteFunc(tl.order, func(k K) bool { return k == key })
	return true
}

// CancelFunc cancels every track whose key satisfies pred.
func (tl *Timeline[K]) CancelFunc(pred func(K) bool) int {
	n := 0
	for key := range tl.tracks {
		if pred(key) {
			tl.Cancel(key)
			n++
		}
	}
	return n
}

// Step advances every track by dt in start order and returns the keys whose
// tracks were running or completed during this step. Finished tracks are
// dropped. Callbacks may start or cancel tracks while Step runs.
func (tl *Timeline[K]) Step(dt time.Duration) []K {
	var touched []K
	for _, key := range slices.Clone(tl.order) {
		t, ok := tl.tracks[key]
		if !ok {
			continue
		}
		switch t.Advance(dt) {
		case StatusRunning, StatusCompleted:
			touched = append(touched, key)
		}
		if t.Finished() && tl.tracks[key] == t {
			delete(tl.tracks, key)
		}
	}
	seen := make(map[K]bool, len(tl.tracks))
	tl.order = slices.DeleteFunc(tl.order, func(k K) bool {
		_, live := tl.tracks[k]
		if !live || seen[k] {
			return true
		}
		seen[k] = true
		return false
	})
	return touched
}

// Active returns the number of tracks that are pending or running.
func (tl *Timeline[K]) Active() int {
	return len(tl.tracks)
}
