package source_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hbomb79/Cadence/internal/source"
	"github.com/hbomb79/Cadence/internal/source/mocks"
	"github.com/hbomb79/Cadence/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const videoURL = "https://www.youtube.com/watch?v=abc"

var ctx = context.Background()

func init() {
	logger.SetMinLoggingLevel(logger.VERBOSE.Level())
}

func newResolver(prober source.Prober) *source.Resolver {
	return source.New(source.Config{MaxDurationSeconds: 3600}, prober)
}

func TestValidate_UnknownPlatformSkipsProbe(t *testing.T) {
	prober := mocks.NewMockProber(t)

	ok, reason := newResolver(prober).Validate(ctx, "https://example.org/page")
	assert.False(t, ok)
	assert.NotEmpty(t, reason)
	prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
}

func TestValidate_DurationOverCeilingRejected(t *testing.T) {
	prober := mocks.NewMockProber(t)
	prober.EXPECT().Probe(mock.Anything, videoURL).Return(&source.ProbeResult{Title: "Long Mix", DurationSeconds: 4000}, nil).Once()

	ok, reason := newResolver(prober).Validate(ctx, videoURL)
	assert.False(t, ok)
	assert.Contains(t, reason, "too long")
}

func TestValidate_DurationAtCeilingAccepted(t *testing.T) {
	prober := mocks.NewMockProber(t)
	prober.EXPECT().Probe(mock.Anything, videoURL).Return(&source.ProbeResult{Title: "Exactly an hour", DurationSeconds: 3600}, nil).Once()

	ok, reason := newResolver(prober).Validate(ctx, videoURL)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestValidate_ProbeFailure(t *testing.T) {
	prober := mocks.NewMockProber(t)
	prober.EXPECT().Probe(mock.Anything, videoURL).Return(nil, errors.New("Video unavailable")).Once()

	ok, reason := newResolver(prober).Validate(ctx, videoURL)
	assert.False(t, ok)
	assert.Contains(t, reason, "Video unavailable")
}

func TestValidate_MissingBasicInfo(t *testing.T) {
	for name, result := range map[string]*source.ProbeResult{
		"no title":    {DurationSeconds: 200},
		"no duration": {Title: "Live stream"},
		"nil result":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			prober := mocks.NewMockProber(t)
			prober.EXPECT().Probe(mock.Anything, videoURL).Return(result, nil).Once()

			ok, _ := newResolver(prober).Validate(ctx, videoURL)
			assert.False(t, ok)
		})
	}
}

func TestValidate_CancelledContext(t *testing.T) {
	prober := mocks.NewMockProber(t)
	resolver := source.New(source.Config{MaxDurationSeconds: 3600, ProbeRatePerSecond: 0.0001, ProbeBurst: 1}, prober)
	prober.EXPECT().Probe(mock.Anything, videoURL).Return(&source.ProbeResult{Title: "a", DurationSeconds: 1}, nil).Once()

	// First probe consumes the only token in the bucket
	ok, _ := resolver.Validate(ctx, videoURL)
	assert.True(t, ok)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	ok, reason := resolver.Validate(cancelled, videoURL)
	assert.False(t, ok)
	assert.Contains(t, reason, "aborted")
}
