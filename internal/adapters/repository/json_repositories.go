package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/ports"
)

// ContactStore is the file store specialised for contacts
type ContactStore = FileStore[entities.Contact, *entities.Contact]

// TaskStore is the file store specialised for tasks
type TaskStore = FileStore[entities.Task, *entities.Task]

// JSONContactRepository implements the ContactRepository interface over a
// JSON file
type JSONContactRepository struct {
	store *ContactStore
}

// NewJSONContactRepository creates a new contact repository
func NewJSONContactRepository(store *ContactStore) ports.ContactRepository {
	return &JSONContactRepository{store: store}
}

func (r *JSONContactRepository) Create(ctx context.Context, contact *entities.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	return r.store.Append(*contact)
}

func (r *JSONContactRepository) CreateMany(ctx context.Context, contacts []entities.Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	err := r.store.Mutate(func(items []entities.Contact) ([]entities.Contact, error) {
		seen := make(map[string]bool, len(items)+len(contacts))
		for _, it := range items {
			seen[it.ID] = true
		}
		for _, c := range contacts {
			if c.ID == "" || seen[c.ID] {
				c.ID = uuid.NewString()
			}
			seen[c.ID] = true
			items = append(items, c)
		}
		return items, nil
	})
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}

func (r *JSONContactRepository) GetByID(ctx context.Context, id string) (*entities.Contact, error) {
	contact, idx := r.store.Find(id)
	if idx < 0 {
		return nil, entities.ErrContactNotFound
	}
	return &contact, nil
}

func (r *JSONContactRepository) Update(ctx context.Context, contact *entities.Contact) error {
	found, err := r.store.Replace(*contact)
	if err != nil {
		return err
	}
	if !found {
		return entities.ErrContactNotFound
	}
	return nil
}

func (r *JSONContactRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.RemoveMatching(func(c entities.Contact) bool { return c.ID == id })
	if err != nil {
		return err
	}
	if n == 0 {
		return entities.ErrContactNotFound
	}
	return nil
}

func (r *JSONContactRepository) List(ctx context.Context) ([]entities.Contact, error) {
	return r.store.Snapshot(), nil
}

func (r *JSONContactRepository) Count(ctx context.Context) (int, error) {
	return r.store.Len(), nil
}

// JSONTaskRepository implements the TaskRepository interface over a JSON file
type JSONTaskRepository struct {
	store *TaskStore
}

// NewJSONTaskRepository creates a new task repository
func NewJSONTaskRepository(store *TaskStore) ports.TaskRepository {
	return &JSONTaskRepository{store: store}
}

func (r *JSONTaskRepository) Create(ctx context.Context, task *entities.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return r.store.Append(*task)
}

func (r *JSONTaskRepository) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	task, idx := r.store.Find(id)
	if idx < 0 {
		return nil, entities.ErrTaskNotFound
	}
	return &task, nil
}

func (r *JSONTaskRepository) Update(ctx context.Context, task *entities.Task) error {
	found, err := r.store.Replace(*task)
	if err != nil {
		return err
	}
	if !found {
		return entities.ErrTaskNotFound
	}
	return nil
}

func (r *JSONTaskRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.RemoveMatching(func(t entities.Task) bool { return t.ID == id })
	if err != nil {
		return err
	}
	if n == 0 {
		return entities.ErrTaskNotFound
	}
	return nil
}

func (r *JSONTaskRepository) List(ctx context.Context) ([]entities.Task, error) {
	return r.store.Snapshot(), nil
}

func (r *JSONTaskRepository) Count(ctx context.Context) (int, error) {
	return r.store.Len(), nil
}
