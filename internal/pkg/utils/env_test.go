package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDuration(t *testing.T) {
	t.Run("unset key falls back", func(t *testing.T) {
		assert.Equal(t, 2*time.Minute, GetEnvDuration("TEST_DURATION_UNSET", 2*time.Minute))
	})

	t.Run("parses duration strings", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "90s")
		assert.Equal(t, 90*time.Second, GetEnvDuration("TEST_DURATION", 2*time.Minute))
	})

	t.Run("unparsable value falls back", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "ninety seconds")
		assert.Equal(t, 2*time.Minute, GetEnvDuration("TEST_DURATION", 2*time.Minute))
	})
}

func TestGetEnvInt(t *testing.T) {
	t.Run("parses integers", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		assert.Equal(t, 42, GetEnvInt("TEST_INT", 7))
	})

	t.Run("unparsable value falls back", func(t *testing.T) {
		t.Setenv("TEST_INT", "not-a-number")
		assert.Equal(t, 7, GetEnvInt("TEST_INT", 7))
	})
}
