package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/desk/internal/adapters/repository"
	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

func newContactService(t *testing.T) (*ContactService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.json")
	store, err := repository.OpenFileStore[entities.Contact](path, repository.FileStoreOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewContactService(repository.NewJSONContactRepository(store), logger.NewNop()), path
}

func seedContacts(t *testing.T, s *ContactService, names ...string) []*entities.Contact {
	t.Helper()
	out := make([]*entities.Contact, 0, len(names))
	for _, n := range names {
		c, err := s.CreateContact(context.Background(), ports.CreateContactRequest{Name: n, Phone: "555-" + n})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestContactService_CreateRequiresName(t *testing.T) {
	s, _ := newContactService(t)
	ctx := context.Background()

	_, err := s.CreateContact(ctx, ports.CreateContactRequest{Phone: "123"})
	require.Error(t, err)

	var verr *entities.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Equal(t, "validation failed: name is required", err.Error())

	list, err := s.ListContacts(ctx, ports.ContactFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContactService_CreateAndGet(t *testing.T) {
	s, _ := newContactService(t)
	ctx := context.Background()

	created, err := s.CreateContact(ctx, ports.CreateContactRequest{
		Name: "Ada", Phone: "111", Email: "ada@example.com", Address: "London", Notes: "first",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	byID, err := s.GetContact(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byPos, err := s.GetContact(ctx, "#1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPos.ID)

	byPrefix, err := s.GetContact(ctx, created.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPrefix.ID)
}

func TestContactService_GetUnknown(t *testing.T) {
	s, _ := newContactService(t)
	seedContacts(t, s, "Ada")

	_, err := s.GetContact(context.Background(), "#5")
	assert.ErrorIs(t, err, entities.ErrContactNotFound)
	assert.True(t, IsNotFound(err))
}

func TestContactService_UpdateReplacesFields(t *testing.T) {
	s, _ := newContactService(t)
	ctx := context.Background()
	seeded := seedContacts(t, s, "Ada", "Grace")

	updated, err := s.UpdateContact(ctx, "#2", ports.UpdateContactRequest{Name: "Grace Hopper", Email: "grace@navy.mil"})
	require.NoError(t, err)
	assert.Equal(t, seeded[1].ID, updated.ID)
	assert.Equal(t, "", updated.Phone)

	list, err := s.ListContacts(ctx, ports.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "Grace Hopper", list[1].Name)
}

func TestContactService_UpdateValidatesFirst(t *testing.T) {
	s, _ := newContactService(t)
	seedContacts(t, s, "Ada")

	_, err := s.UpdateContact(context.Background(), "#1", ports.UpdateContactRequest{Phone: "9"})
	var verr *entities.ValidationError
	require.True(t, errors.As(err, &verr))

	got, err := s.GetContact(context.Background(), "#1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
}

func TestContactService_DeleteRemovesOnlySelected(t *testing.T) {
	s, _ := newContactService(t)
	ctx := context.Background()
	seedContacts(t, s, "Ada", "Ada", "Grace")

	deleted, err := s.DeleteContact(ctx, "#1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", deleted.Name)

	list, err := s.ListContacts(ctx, ports.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "Grace", list[1].Name)
}

func TestContactService_ListSearch(t *testing.T) {
	s, _ := newContactService(t)
	ctx := context.Background()
	seedContacts(t, s, "Alice", "Bob", "alicia")

	list, err := s.ListContacts(ctx, ports.ContactFilter{Search: "ALI"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, "alicia", list[1].Name)

	list, err = s.ListContacts(ctx, ports.ContactFilter{Search: "555-Bob"})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestContactService_ExportIsStable(t *testing.T) {
	s, _ := newContactService(t)
	ctx := context.Background()
	seedContacts(t, s, "Ada", "Grace")

	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")

	n, err := s.ExportContacts(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = s.ExportContacts(ctx, second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "\n    {\n        \"id\"")
}

func TestContactService_ExportImportYAML(t *testing.T) {
	src, _ := newContactService(t)
	ctx := context.Background()
	seedContacts(t, src, "Ada", "Grace")

	path := filepath.Join(t.TempDir(), "contacts.yaml")
	_, err := src.ExportContacts(ctx, path)
	require.NoError(t, err)

	dst, _ := newContactService(t)
	n, err := dst.ImportContacts(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := src.ListContacts(ctx, ports.ContactFilter{})
	require.NoError(t, err)
	got, err := dst.ListContacts(ctx, ports.ContactFilter{})
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("imported contacts mismatch (-want +got):\n%s", diff)
	}
}

func TestContactService_ImportAppendsAndAssignsIDs(t *testing.T) {
	s, storePath := newContactService(t)
	ctx := context.Background()
	existing := seedContacts(t, s, "Ada")

	n, err := s.ImportContactsData(ctx, []byte(`[
		{"name": "Grace", "phone": "222"},
		{"id": "`+existing[0].ID+`", "name": "Clash"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.ListContacts(ctx, ports.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	ids := map[string]bool{}
	for _, c := range list {
		assert.NotEmpty(t, c.ID)
		ids[c.ID] = true
	}
	assert.Len(t, ids, 3)

	data, err := os.ReadFile(storePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Clash")
}

func TestContactService_ImportRejectsNonArray(t *testing.T) {
	s, _ := newContactService(t)
	ctx := context.Background()
	seedContacts(t, s, "Ada")

	for _, doc := range []string{`{"name": "x"}`, `"hello"`, `not json`, `null`} {
		_, err := s.ImportContactsData(ctx, []byte(doc))
		assert.ErrorIs(t, err, entities.ErrInvalidFormat, doc)
	}

	list, err := s.ListContacts(ctx, ports.ContactFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContactService_ImportEmptyListIsNoop(t *testing.T) {
	s, storePath := newContactService(t)

	n, err := s.ImportContactsData(context.Background(), []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = os.Stat(storePath)
	assert.True(t, os.IsNotExist(err))
}

func TestContactService_ImportMissingFile(t *testing.T) {
	s, _ := newContactService(t)
	_, err := s.ImportContacts(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
