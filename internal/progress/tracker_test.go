package progress_test

import (
	"testing"

	"github.com/hbomb79/Cadence/internal/progress"
	"github.com/stretchr/testify/assert"
)

type update struct {
	percent int
	label   string
}

func recordingTracker(lo, hi int) (*progress.Tracker, *[]update) {
	updates := make([]update, 0)
	tracker := progress.New(lo, hi, func(percent int, label string) {
		updates = append(updates, update{percent, label})
	})

	return tracker, &updates
}

func TestTracker_MapsRawPercentInToSubRange(t *testing.T) {
	tracker, _ := recordingTracker(15, 80)

	assert.Equal(t, 47, tracker.Map(50))
	assert.Equal(t, 15, tracker.Map(0))
	assert.Equal(t, 80, tracker.Map(100))
	assert.Equal(t, 80, tracker.Map(250), "raw values above 100 are clamped")
	assert.Equal(t, 15, tracker.Map(-5), "raw values below 0 are clamped")
}

func TestTracker_SuppressesSubPercentUpdates(t *testing.T) {
	tracker, updates := recordingTracker(15, 80)

	tracker.Handle(progress.Downloading{Percent: 0.5, Phase: progress.PhaseDownload})
	tracker.Handle(progress.Downloading{Percent: 0.7, Phase: progress.PhaseDownload})
	assert.Empty(t, *updates, "no update should be forwarded until the mapped value moves by a whole percent")

	tracker.Handle(progress.Downloading{Percent: 50, Phase: progress.PhaseDownload})
	tracker.Handle(progress.Downloading{Percent: 49.5, Phase: progress.PhaseDownload})
	tracker.Handle(progress.Downloading{Percent: 20, Phase: progress.PhaseDownload})

	assert.Equal(t, []update{{47, "Downloading: 50.0%"}}, *updates)
	assert.Equal(t, 47, tracker.Last())
}

func TestTracker_ForwardedValuesAreMonotonic(t *testing.T) {
	tracker, updates := recordingTracker(15, 80)
	for _, raw := range []float64{5, 12, 8, 40, 39, 70, 71, 100, 90} {
		tracker.Handle(progress.Downloading{Percent: raw, Phase: progress.PhaseDownload})
	}
	tracker.Handle(progress.Finished{})

	last := 15
	for _, u := range *updates {
		assert.GreaterOrEqual(t, u.percent, last)
		last = u.percent
	}
}

func TestTracker_FinishedForceReportsCheckpoint(t *testing.T) {
	tracker, updates := recordingTracker(15, 80)
	tracker.Handle(progress.Downloading{Percent: 10, Phase: progress.PhaseDownload})
	tracker.Handle(progress.Finished{})

	assert.Len(t, *updates, 2)
	assert.Equal(t, update{tracker.Map(progress.FinishedCheckpoint), progress.FinishedLabel}, (*updates)[1])

	// Finished after the checkpoint has been passed does not move progress backwards
	tracker.Handle(progress.Downloading{Percent: 100, Phase: progress.PhaseConvert})
	tracker.Handle(progress.Finished{})
	assert.Equal(t, update{80, progress.FinishedLabel}, (*updates)[len(*updates)-1])
}

func TestTracker_FailedOnlyLogs(t *testing.T) {
	tracker, updates := recordingTracker(15, 80)
	tracker.Handle(progress.Failed{Message: "HTTP Error 403"})

	assert.Empty(t, *updates)
	assert.Equal(t, 15, tracker.Last())
}

func TestTracker_ConvertPhaseLabel(t *testing.T) {
	tracker, updates := recordingTracker(0, 100)
	tracker.Handle(progress.Downloading{Percent: 75, Phase: progress.PhaseConvert})

	assert.Equal(t, []update{{75, "Converting: 75.0%"}}, *updates)
}
