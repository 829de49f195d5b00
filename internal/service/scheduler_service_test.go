package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("04:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 4 * * *", spec)

	for _, raw := range []string{"24:00", "12:60", "noon", "12", "12:30:00"} {
		_, err := buildDailySpec(raw)
		assert.Error(t, err, "time %q", raw)
	}
}

func TestScheduleDailyRejectsInvalidTime(t *testing.T) {
	scheduler := NewSchedulerService(time.UTC)
	_, err := scheduler.ScheduleDaily("nope", func() {})
	assert.Error(t, err)
}
