package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/desk/internal/domain/entities"
)

func openContacts(t *testing.T, path string, opts FileStoreOptions) *ContactStore {
	t.Helper()
	s, err := OpenFileStore[entities.Contact](path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := openContacts(t, filepath.Join(t.TempDir(), "contacts.json"), FileStoreOptions{})
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Snapshot())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	s, err := OpenFileStore[entities.Contact](path, FileStoreOptions{})
	require.NoError(t, err)

	in := []entities.Contact{
		{Name: "Ada", Phone: "111", Email: "ada@example.com", Address: "London", Notes: "math"},
		{Name: "Grace", Phone: "222"},
		{Name: "Linus", Notes: "kernel"},
	}
	require.NoError(t, s.Append(in...))
	saved := s.Snapshot()
	require.NoError(t, s.Close())

	reopened := openContacts(t, path, FileStoreOptions{})
	assert.Equal(t, saved, reopened.Snapshot())
	for _, c := range reopened.Snapshot() {
		assert.NotEmpty(t, c.ID)
	}
}

func TestFileStoreWritesFourSpaceIndentAndNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")
	s := openContacts(t, path, FileStoreOptions{})

	require.NoError(t, s.Append(entities.Contact{ID: "c1", Name: "Ada"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n    {\n        \"id\": \"c1\""), string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{oops"},
		{name: "object", content: `{"name": "Ada"}`},
		{name: "null", content: "null"},
		{name: "bad record", content: `[{"name": 7}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "contacts.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := OpenFileStore[entities.Contact](path, FileStoreOptions{})
			require.ErrorIs(t, err, entities.ErrCorruptStore)
		})
	}
}

func TestFileStoreResetCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	s := openContacts(t, path, FileStoreOptions{ResetCorrupt: true})
	assert.Equal(t, 0, s.Len())

	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFileStoreAssignsIDsToLegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gui_todo_data.json")
	legacy := `[
    {"task": "write report", "category": "Important", "deadline": "09:00", "done": false},
    {"task": "gym", "category": "Personal", "deadline": "18:30", "done": true}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s, err := OpenFileStore[entities.Task](path, FileStoreOptions{})
	require.NoError(t, err)
	first := s.Snapshot()
	require.Len(t, first, 2)
	assert.NotEmpty(t, first[0].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)
	assert.Equal(t, "gym", first[1].Task)
	assert.True(t, first[1].Done)
	require.NoError(t, s.Close())

	again, err := OpenFileStore[entities.Task](path, FileStoreOptions{})
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, first, again.Snapshot())
}

func TestFileStoreMissingFieldsDefaultToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "x", "name": "Ada"}]`), 0o644))

	s := openContacts(t, path, FileStoreOptions{})
	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Phone)
	assert.Equal(t, "", got[0].Notes)
}

func TestFileStoreLockPreventsSecondOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	s := openContacts(t, path, FileStoreOptions{})
	_ = s

	_, err := OpenFileStore[entities.Contact](path, FileStoreOptions{})
	require.ErrorIs(t, err, entities.ErrStoreLocked)
}

func TestFileStoreMutateErrorLeavesStateAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	s := openContacts(t, path, FileStoreOptions{})
	require.NoError(t, s.Append(entities.Contact{ID: "a", Name: "Ada"}))

	err := s.Mutate(func(items []entities.Contact) ([]entities.Contact, error) {
		items[0].Name = "changed"
		return nil, assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "Ada", s.Snapshot()[0].Name)
}

func TestFileStoreSaveFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")
	s := openContacts(t, path, FileStoreOptions{})
	require.NoError(t, s.Append(entities.Contact{ID: "a", Name: "Ada"}))

	// a directory in place of the target makes the rename fail
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o644))

	err := s.Append(entities.Contact{ID: "b", Name: "Bob"})
	require.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestFileStoreBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	s := openContacts(t, path, FileStoreOptions{Backup: true})

	require.NoError(t, s.Append(entities.Contact{ID: "a", Name: "Ada"}))
	require.NoError(t, s.Append(entities.Contact{ID: "b", Name: "Bob"}))

	prev, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(prev), "Ada")
	assert.NotContains(t, string(prev), "Bob")
}

func TestFileStoreRemoveMatching(t *testing.T) {
	s := openContacts(t, filepath.Join(t.TempDir(), "contacts.json"), FileStoreOptions{})
	require.NoError(t, s.Append(
		entities.Contact{ID: "a", Name: "Ada"},
		entities.Contact{ID: "b", Name: "Bob"},
		entities.Contact{ID: "c", Name: "Cy"},
	))

	n, err := s.RemoveMatching(func(c entities.Contact) bool { return c.ID == "b" })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	names := []string{}
	for _, c := range s.Snapshot() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Ada", "Cy"}, names)

	n, err = s.RemoveMatching(func(entities.Contact) bool { return false })
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileStoreUpdateAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	s, err := OpenFileStore[entities.Contact](path, FileStoreOptions{})
	require.NoError(t, err)
	require.NoError(t, s.Append(
		entities.Contact{ID: "a", Name: "Ada"},
		entities.Contact{ID: "b", Name: "Bob"},
	))

	require.NoError(t, s.UpdateAt(1, entities.Contact{ID: "b", Name: "Bobby", Phone: "555"}))
	assert.Equal(t, "Bobby", s.Snapshot()[1].Name)

	for _, index := range []int{-1, 2} {
		err := s.UpdateAt(index, entities.Contact{ID: "x", Name: "Xavier"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	}
	require.NoError(t, s.Close())

	reopened := openContacts(t, path, FileStoreOptions{})
	assert.Equal(t, []entities.Contact{
		{ID: "a", Name: "Ada"},
		{ID: "b", Name: "Bobby", Phone: "555"},
	}, reopened.Snapshot())
}

func TestJSONContactRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewJSONContactRepository(openContacts(t, filepath.Join(t.TempDir(), "contacts.json"), FileStoreOptions{}))

	c := &entities.Contact{Name: "Ada", Phone: "111"}
	require.NoError(t, repo.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	got.Phone = "999"
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "999", again.Phone)

	n, err := repo.CreateMany(ctx, []entities.Contact{{ID: c.ID, Name: "Dup"}, {Name: "New"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.NotEqual(t, c.ID, list[1].ID)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, entities.ErrContactNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), entities.ErrContactNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &entities.Contact{ID: "nope"}), entities.ErrContactNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestJSONTaskRepository(t *testing.T) {
	ctx := context.Background()
	store, err := OpenFileStore[entities.Task](filepath.Join(t.TempDir(), "tasks.json"), FileStoreOptions{})
	require.NoError(t, err)
	defer store.Close()
	repo := NewJSONTaskRepository(store)

	task := &entities.Task{Task: "ship", Category: entities.CategoryImportant, Deadline: "10:00"}
	require.NoError(t, repo.Create(ctx, task))

	task.Done = true
	require.NoError(t, repo.Update(ctx, task))
	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Done)

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err = repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}
