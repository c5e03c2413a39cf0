package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type (
	// RetryPolicy controls how many times a task may be retried, and how
	// long to wait before each retry.
	RetryPolicy struct {
		Cap       int
		BaseDelay time.Duration
	}

	// RetryError is returned by Process when the task failed with a
	// retryable trouble and has been returned to the pending state. The
	// caller is responsible for re-submitting the task once Delay
	// has elapsed.
	RetryError struct {
		TaskID  uuid.UUID
		Attempt int
		Delay   time.Duration
		Cause   error
	}
)

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Cap: 3, BaseDelay: time.Minute}
}

// Delay returns the backoff for the retry count provided,
// which grows exponentially (base * 2^retryCount).
func (policy RetryPolicy) Delay(retryCount int) time.Duration {
	return policy.BaseDelay * time.Duration(1<<max(0, retryCount))
}

func (err *RetryError) Error() string {
	return fmt.Sprintf("task %s scheduled for retry %d in %s: %v", err.TaskID, err.Attempt, err.Delay, err.Cause)
}

func (err *RetryError) Unwrap() error { return err.Cause }
