package ports

import (
	"context"

	"github.com/taskmaster/desk/internal/domain/entities"
)

// ContactRepository defines the interface for contact data operations.
// List order is insertion order and is what positional selectors refer to.
type ContactRepository interface {
	Create(ctx context.Context, contact *entities.Contact) error
	CreateMany(ctx context.Context, contacts []entities.Contact) (int, error)
	GetByID(ctx context.Context, id string) (*entities.Contact, error)
	Update(ctx context.Context, contact *entities.Contact) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entities.Contact, error)
	Count(ctx context.Context) (int, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id string) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entities.Task, error)
	Count(ctx context.Context) (int, error)
}

// Filter types for repository queries
type ContactFilter struct {
	Search string
}

type TaskStatusFilter string

const (
	TaskStatusAll     TaskStatusFilter = "all"
	TaskStatusPending TaskStatusFilter = "pending"
	TaskStatusDone    TaskStatusFilter = "done"
)

type TaskFilter struct {
	Search string
	Status TaskStatusFilter
}
