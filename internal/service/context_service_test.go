package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"smart-planner/internal/repository"
)

func TestContextStatsCountsSuggestions(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	repo := repository.NewContextRepository(db)
	svc := NewContextService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, user, ContextInput{Content: "nothing actionable"})
	require.NoError(t, err)

	suggesting, err := svc.Create(ctx, user, ContextInput{Content: "two things to do"})
	require.NoError(t, err)
	suggesting.TaskSuggestions = datatypes.JSONSlice[map[string]any]{
		{"title": "first"},
		{"title": "second"},
	}
	require.NoError(t, repo.Save(ctx, suggesting))

	stats, err := svc.Stats(ctx, user, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.EntriesWithSuggestions)
	assert.Equal(t, 2, stats.TotalTaskSuggestions)
}

func TestByIDsSkipsForeignEntries(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewContextRepository(db)
	svc := NewContextService(repo)
	ctx := context.Background()

	alice, err := repository.NewUserRepository(db).FindOrCreate(ctx, 1)
	require.NoError(t, err)
	bob, err := repository.NewUserRepository(db).FindOrCreate(ctx, 2)
	require.NoError(t, err)

	mine, err := svc.Create(ctx, alice, ContextInput{Content: "mine"})
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, bob, ContextInput{Content: "theirs"})
	require.NoError(t, err)

	entries, err := svc.ByIDs(ctx, alice, []uint{mine.ID, theirs.ID, 999})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, mine.ID, entries[0].ID)
}
