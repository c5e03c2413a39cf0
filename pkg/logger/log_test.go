package logger_test

import (
	"testing"

	"github.com/hbomb79/Cadence/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.VERBOSE, logger.ParseLevel("verbose"))
	assert.Equal(t, logger.DEBUG, logger.ParseLevel(" DEBUG "))
	assert.Equal(t, logger.WARNING, logger.ParseLevel("warn"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("error"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
}

func TestStatusGlyphs(t *testing.T) {
	assert.Equal(t, "I", logger.INFO.String())
	assert.Equal(t, "✓", logger.SUCCESS.String())
	assert.Equal(t, "PANIC", logger.FATAL.String())
	assert.Less(t, logger.DEBUG.Level(), logger.INFO.Level())
}

func TestEmitBelowMinimumDoesNotPanic(t *testing.T) {
	logger.SetMinLoggingLevel(logger.ERROR.Level())
	t.Cleanup(func() { logger.SetMinLoggingLevel(logger.INFO.Level()) })

	log := logger.Get("Test")
	log.Debugf("suppressed %d\n", 1)
	log.Errorf("visible %s\n", "message")
}
