package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&Task{}).IsOverdue(now), "no deadline is never overdue")
	assert.True(t, (&Task{Deadline: &past, Status: StatusPending}).IsOverdue(now))
	assert.False(t, (&Task{Deadline: &future, Status: StatusPending}).IsOverdue(now))
	assert.False(t, (&Task{Deadline: &past, Status: StatusCompleted}).IsOverdue(now), "completed tasks are not overdue")
}

func TestUrgencyLevel(t *testing.T) {
	now := time.Now()
	deadline := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	cases := []struct {
		name string
		task Task
		want float64
	}{
		{"no deadline keeps score", Task{PriorityScore: 42}, 42},
		{"overdue collapses to max", Task{PriorityScore: 2, Deadline: deadline(-time.Hour)}, 10},
		{"due within a day", Task{PriorityScore: 5, Deadline: deadline(12 * time.Hour)}, 8},
		{"due within three days", Task{PriorityScore: 5, Deadline: deadline(2 * 24 * time.Hour)}, 7},
		{"due within a week", Task{PriorityScore: 5, Deadline: deadline(5 * 24 * time.Hour)}, 6},
		{"far deadline keeps score", Task{PriorityScore: 5, Deadline: deadline(30 * 24 * time.Hour)}, 5},
		{"boost is capped", Task{PriorityScore: 9, Deadline: deadline(12 * time.Hour)}, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.task.UrgencyLevel(now))
		})
	}
}

func TestTaskJSONIncludesDerivedFields(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	task := Task{Title: "late", Status: StatusPending, PriorityScore: 60, Deadline: &past}

	raw, err := json.Marshal(task)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, true, out["is_overdue"])
	assert.Equal(t, 10.0, out["urgency_level"])
	assert.Equal(t, "late", out["title"])

	noDeadline := Task{Title: "open", Status: StatusPending, PriorityScore: 60}
	raw, err = json.Marshal(&noDeadline)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, false, out["is_overdue"])
	assert.Equal(t, 60.0, out["urgency_level"])
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"  Urgent ", "", "Work", "urgent"})
	assert.Equal(t, []string{"urgent", "work", "urgent"}, got)
	assert.Empty(t, NormalizeTags(nil))
}
