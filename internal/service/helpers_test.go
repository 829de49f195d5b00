package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"smart-planner/internal/model"
	"smart-planner/internal/repository"
)

// newTestDB opens a fresh in-memory database per test. The unique name keeps
// parallel tests from sharing state through the sqlite shared cache.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	return db
}

func newTestUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user, err := repository.NewUserRepository(db).FindOrCreate(context.Background(), 1)
	require.NoError(t, err)
	return user
}

// stubCompleter substitutes the external model in tests.
type stubCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}
