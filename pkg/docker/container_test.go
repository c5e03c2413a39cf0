package docker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerStatus_String(t *testing.T) {
	assert.Equal(t, "UP", UP.String())
	assert.Equal(t, "DEAD", DEAD.String())
	assert.Equal(t, "UNKNOWN", ContainerStatus(42).String())
}

func TestContainer_WaitForStatusChange(t *testing.T) {
	c := NewContainer("redis", "redis:7-alpine", nil, nil)

	done := make(chan ContainerStatus, 1)
	go func() {
		status, err := c.WaitFor(context.Background(), UP)
		assert.NoError(t, err)
		done <- status
	}()

	c.setStatus(PULLED)
	c.setStatus(CREATED)
	c.setStatus(UP)

	select {
	case status := <-done:
		assert.Equal(t, UP, status)
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not observe the UP status")
	}
}

func TestContainer_WaitForDeadContainerErrors(t *testing.T) {
	c := NewContainer("db", "postgres:14.1-alpine", nil, nil)
	c.setStatus(DEAD)
	c.setStatus(UP)

	assert.Equal(t, DEAD, c.Status(), "a DEAD container never changes status")
	_, err := c.WaitFor(context.Background(), UP)
	assert.Error(t, err)
}

func TestContainer_WaitForRespectsContext(t *testing.T) {
	c := NewContainer("db", "postgres:14.1-alpine", nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.WaitFor(ctx, UP)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestContainer_ConsumePullEvents(t *testing.T) {
	c := NewContainer("db", "postgres:14.1-alpine", nil, nil)

	ok := `{"status":"Pulling from library/postgres"}
{"status":"Downloading","progress":"[==>   ] 1MB/10MB"}
{"status":"Status: Downloaded newer image"}`
	require.NoError(t, c.consumePullEvents(strings.NewReader(ok)))

	failed := `{"status":"Pulling"}
{"error":"manifest unknown"}`
	assert.ErrorContains(t, c.consumePullEvents(strings.NewReader(failed)), "manifest unknown")
}
