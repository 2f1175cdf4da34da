package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/config"
	"github.com/taskmaster/desk/internal/infrastructure/database"
)

func openSQLite(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(config.StorageConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "desk.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLContactRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLContactRepository(openSQLite(t).DB)

	ada := &entities.Contact{Name: "Ada", Phone: "111"}
	bob := &entities.Contact{Name: "Bob", Phone: "222"}
	require.NoError(t, repo.Create(ctx, ada))
	require.NoError(t, repo.Create(ctx, bob))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "Bob", list[1].Name)

	ada.Notes = "math"
	require.NoError(t, repo.Update(ctx, ada))
	got, err := repo.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "math", got.Notes)

	n, err := repo.CreateMany(ctx, []entities.Contact{{ID: ada.ID, Name: "Dup"}, {Name: "Cy"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	require.NoError(t, repo.Delete(ctx, bob.ID))
	assert.ErrorIs(t, repo.Delete(ctx, bob.ID), entities.ErrContactNotFound)
	_, err = repo.GetByID(ctx, bob.ID)
	assert.ErrorIs(t, err, entities.ErrContactNotFound)
}

func TestSQLTaskRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLTaskRepository(openSQLite(t).DB)

	task := &entities.Task{Task: "ship", Category: entities.CategoryMedium, Deadline: "10:00"}
	require.NoError(t, repo.Create(ctx, task))

	task.Done = true
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.Equal(t, entities.CategoryMedium, got.Category)

	assert.ErrorIs(t, repo.Update(ctx, &entities.Task{ID: "nope"}), entities.ErrTaskNotFound)

	require.NoError(t, repo.Delete(ctx, task.ID))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
