package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/ingest"
	"github.com/hbomb79/Cadence/internal/ingest/mocks"
	"github.com/hbomb79/Cadence/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var serviceConfig = ingest.Config{
	DownloadWorkers: 1,
	PollInterval:    10 * time.Millisecond,
	RecoveryDelay:   30 * time.Second,
}

// runService starts the service in the background, returning a function
// which stops it and waits for Run to return.
func runService(t *testing.T, service interface{ Run(context.Context) error }) func() {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(runCtx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("service did not stop")
		}
	}
}

func TestService_RequiresWorkers(t *testing.T) {
	_, err := ingest.New(ingest.Config{DownloadWorkers: 0}, mocks.NewMockQueue(t), mocks.NewMockProcessor(t))
	assert.Error(t, err)
}

func TestService_HandlesProcessingResult(t *testing.T) {
	tests := []struct {
		summary       string
		processErr    func(uuid.UUID) error
		expectedDelay time.Duration
	}{
		{
			summary:    "terminal result is only acknowledged",
			processErr: func(uuid.UUID) error { return nil },
		},
		{
			summary: "retry is re-submitted with backoff",
			processErr: func(id uuid.UUID) error {
				return &ingest.RetryError{TaskID: id, Attempt: 1, Delay: 2 * time.Minute, Cause: errors.New("timeout")}
			},
			expectedDelay: 2 * time.Minute,
		},
		{
			summary:       "infrastructure failure is re-submitted after recovery delay",
			processErr:    func(uuid.UUID) error { return errors.New("database unavailable") },
			expectedDelay: serviceConfig.RecoveryDelay,
		},
	}

	for _, test := range tests {
		t.Run(test.summary, func(t *testing.T) {
			q := mocks.NewMockQueue(t)
			processor := mocks.NewMockProcessor(t)

			taskID := uuid.New()
			delivery := &queue.Delivery{TaskID: taskID, StreamID: "1700000000000-0"}
			acked := make(chan struct{})

			q.EXPECT().Claim(mock.Anything, mock.Anything).Return(delivery, nil).Once()
			q.EXPECT().Claim(mock.Anything, mock.Anything).Return(nil, nil).Maybe()
			processor.EXPECT().Process(mock.Anything, taskID).Return(test.processErr(taskID)).Once()
			if test.expectedDelay > 0 {
				q.EXPECT().EnqueueAfter(mock.Anything, taskID, test.expectedDelay).Return(nil).Once()
			}
			q.EXPECT().Ack(mock.Anything, delivery).
				Run(func(context.Context, *queue.Delivery) { close(acked) }).
				Return(nil).Once()

			service, err := ingest.New(serviceConfig, q, processor)
			require.NoError(t, err)
			stop := runService(t, service)

			select {
			case <-acked:
			case <-time.After(5 * time.Second):
				t.Fatal("delivery was never acknowledged")
			}
			stop()
		})
	}
}

func TestService_EnqueueSubmitsToQueue(t *testing.T) {
	q := mocks.NewMockQueue(t)
	processor := mocks.NewMockProcessor(t)
	taskID := uuid.New()

	q.EXPECT().Enqueue(mock.Anything, taskID).Return(nil).Once()
	q.EXPECT().Claim(mock.Anything, mock.Anything).Return(nil, nil).Maybe()

	service, err := ingest.New(serviceConfig, q, processor)
	require.NoError(t, err)
	stop := runService(t, service)
	defer stop()

	require.NoError(t, service.Enqueue(context.Background(), taskID))
}

func TestService_EnqueueErrorIsReturned(t *testing.T) {
	q := mocks.NewMockQueue(t)
	taskID := uuid.New()
	q.EXPECT().Enqueue(mock.Anything, taskID).Return(errors.New("redis: connection refused"))

	service, err := ingest.New(serviceConfig, q, mocks.NewMockProcessor(t))
	require.NoError(t, err)
	assert.Error(t, service.Enqueue(context.Background(), taskID))
}
