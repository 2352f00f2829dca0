package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	clock := &MockClock{FixedNow: time.Date(2025, 3, 14, 17, 45, 10, 0, time.UTC)}

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), Today(clock))
}

func TestParseDate(t *testing.T) {
	t.Run("empty is nil", func(t *testing.T) {
		d, err := ParseDate("")
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("iso date", func(t *testing.T) {
		d, err := ParseDate("2024-11-05")
		require.NoError(t, err)
		assert.Equal(t, "2024-11-05", FormatDate(d))
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := ParseDate("05/11/2024")
		assert.Error(t, err)
	})
}
