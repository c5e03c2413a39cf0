package progress

import (
	"fmt"
	"math"

	"github.com/hbomb79/Cadence/pkg/logger"
)

var log = logger.Get("Progress")

const (
	// FinishedCheckpoint is the raw percentage force-reported when the
	// backend signals it has finished.
	FinishedCheckpoint = 90

	FinishedLabel = "Download complete, processing..."
)

// Sink receives the task-wide percentage and step label.
type Sink func(percent int, label string)

// Tracker maps raw backend percentages on to a sub-range [lo, hi] of
// the task-wide progress scale. Updates smaller than one whole percent
// are suppressed to bound the number of writes made against the task.
//
// A Tracker is not safe for concurrent use, it's expected to be driven
// synchronously by the backend of a single task.
type Tracker struct {
	lo, hi int
	last   int
	sink   Sink
}

func New(lo int, hi int, sink Sink) *Tracker {
	if hi < lo {
		lo, hi = hi, lo
	}

	return &Tracker{lo: lo, hi: hi, last: lo, sink: sink}
}

// Map converts a raw backend percentage in to the task-wide percentage.
func (tracker *Tracker) Map(raw float64) int {
	raw = math.Max(0, math.Min(100, raw))
	return tracker.lo + int(math.RoundToEven(raw*float64(tracker.hi-tracker.lo)/100))
}

// Last returns the most recent task-wide percentage forwarded to the sink.
func (tracker *Tracker) Last() int {
	return tracker.last
}

// Handle consumes a single backend event. It's signature matches the
// downloaders progress hook, so a trackers Handle method can be passed
// directly to a download.
func (tracker *Tracker) Handle(event Event) {
	switch ev := event.(type) {
	case Downloading:
		mapped := tracker.Map(ev.Percent)
		if mapped-tracker.last < 1 {
			return
		}

		tracker.forward(mapped, label(ev))
	case Finished:
		tracker.forward(max(tracker.last, tracker.Map(FinishedCheckpoint)), FinishedLabel)
	case Failed:
		log.Emit(logger.WARNING, "Backend reported error: %s\n", ev.Message)
	default:
		panic(fmt.Sprintf("unhandled progress event %T", event))
	}
}

func (tracker *Tracker) forward(percent int, label string) {
	tracker.last = percent
	if tracker.sink != nil {
		tracker.sink(percent, label)
	}
}

func label(ev Downloading) string {
	if ev.Phase == PhaseConvert {
		return fmt.Sprintf("Converting: %.1f%%", ev.Percent)
	}

	return fmt.Sprintf("Downloading: %.1f%%", ev.Percent)
}
