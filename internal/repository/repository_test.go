package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"smart-planner/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	return db
}

func TestFindOrCreateUserIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "user-42", first.Username)

	again, err := repo.FindOrCreate(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)
	contextRepo := NewContextRepository(db)
	insightRepo := NewInsightRepository(db)

	user, err := userRepo.FindOrCreate(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, taskRepo.Create(ctx, &model.Task{UserID: user.ID, Title: "t"}))
	require.NoError(t, contextRepo.Create(ctx, &model.ContextEntry{UserID: user.ID, Content: "c", ContextDate: time.Now()}))
	require.NoError(t, insightRepo.Create(ctx, &model.ContextInsight{UserID: user.ID, Title: "i", InsightType: model.InsightPattern}))

	require.NoError(t, userRepo.Delete(ctx, user.ID))

	tasks, err := taskRepo.List(ctx, user.ID, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	entries, err := contextRepo.List(ctx, user.ID, ContextFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)

	insights, err := insightRepo.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, insights)

	_, err = userRepo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteCategoryKeepsTasks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)
	categoryRepo := NewCategoryRepository(db)

	user, err := userRepo.FindOrCreate(ctx, 1)
	require.NoError(t, err)
	category, err := categoryRepo.GetOrCreate(ctx, "Work")
	require.NoError(t, err)

	task := model.Task{UserID: user.ID, Title: "t", CategoryID: &category.ID}
	require.NoError(t, taskRepo.Create(ctx, &task))

	require.NoError(t, categoryRepo.Delete(ctx, category.ID))

	reloaded, err := taskRepo.FindByID(ctx, user.ID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CategoryID)
}

func TestGetOrCreateCategoryEmptyName(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)

	category, err := repo.GetOrCreate(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, category)
}

func TestListWithSuggestions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userRepo := NewUserRepository(db)
	contextRepo := NewContextRepository(db)

	user, err := userRepo.FindOrCreate(ctx, 1)
	require.NoError(t, err)

	plain := model.ContextEntry{UserID: user.ID, Content: "nothing here", ContextDate: time.Now()}
	require.NoError(t, contextRepo.Create(ctx, &plain))

	withSuggestions := model.ContextEntry{
		UserID:      user.ID,
		Content:     "call the plumber",
		ContextDate: time.Now(),
		TaskSuggestions: datatypes.JSONSlice[map[string]any]{
			{"title": "Call plumber"},
		},
	}
	require.NoError(t, contextRepo.Create(ctx, &withSuggestions))

	entries, err := contextRepo.ListWithSuggestions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, withSuggestions.ID, entries[0].ID)
}

func TestListHighRelevanceThreshold(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userRepo := NewUserRepository(db)
	contextRepo := NewContextRepository(db)

	user, err := userRepo.FindOrCreate(ctx, 1)
	require.NoError(t, err)

	low := model.ContextEntry{UserID: user.ID, Content: "low", ContextDate: time.Now(), RelevanceScore: 3}
	high := model.ContextEntry{UserID: user.ID, Content: "high", ContextDate: time.Now(), RelevanceScore: 9}
	boundary := model.ContextEntry{UserID: user.ID, Content: "boundary", ContextDate: time.Now(), RelevanceScore: 7}
	for _, entry := range []*model.ContextEntry{&low, &high, &boundary} {
		require.NoError(t, contextRepo.Create(ctx, entry))
	}

	entries, err := contextRepo.ListHighRelevance(ctx, user.ID, 7.0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "high", entries[0].Content)
	assert.Equal(t, "boundary", entries[1].Content)
}

func TestUserScopingAcrossRepositories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userRepo := NewUserRepository(db)
	taskRepo := NewTaskRepository(db)

	alice, err := userRepo.FindOrCreate(ctx, 1)
	require.NoError(t, err)
	bob, err := userRepo.FindOrCreate(ctx, 2)
	require.NoError(t, err)

	task := model.Task{UserID: alice.ID, Title: "private"}
	require.NoError(t, taskRepo.Create(ctx, &task))

	_, err = taskRepo.FindByID(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	tasks, err := taskRepo.List(ctx, bob.ID, TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
