package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/database"
	"github.com/taskmaster/desk/internal/ports"
)

// SQLContactRepository implements the ContactRepository interface over sqlx
type SQLContactRepository struct {
	db *sqlx.DB
}

// NewSQLContactRepository creates a new contact repository
func NewSQLContactRepository(db *sqlx.DB) ports.ContactRepository {
	return &SQLContactRepository{db: db}
}

const insertContact = `
	INSERT INTO contacts (id, position, name, phone, email, address, notes)
	VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM contacts), ?, ?, ?, ?, ?)`

func (r *SQLContactRepository) Create(ctx context.Context, contact *entities.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(insertContact),
		contact.ID, contact.Name, contact.Phone, contact.Email, contact.Address, contact.Notes)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *SQLContactRepository) CreateMany(ctx context.Context, contacts []entities.Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	err := database.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, c := range contacts {
			var exists int
			if c.ID != "" {
				err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM contacts WHERE id = ?`), c.ID)
				if err != nil {
					return err
				}
			}
			if c.ID == "" || exists > 0 {
				c.ID = uuid.NewString()
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(insertContact),
				c.ID, c.Name, c.Phone, c.Email, c.Address, c.Notes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import contacts: %w", err)
	}
	return len(contacts), nil
}

func (r *SQLContactRepository) GetByID(ctx context.Context, id string) (*entities.Contact, error) {
	query := `SELECT id, name, phone, email, address, notes FROM contacts WHERE id = ?`

	var contact entities.Contact
	err := r.db.GetContext(ctx, &contact, r.db.Rebind(query), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact by id: %w", err)
	}
	return &contact, nil
}

func (r *SQLContactRepository) Update(ctx context.Context, contact *entities.Contact) error {
	query := `
		UPDATE contacts
		SET name = ?, phone = ?, email = ?, address = ?, notes = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		contact.Name, contact.Phone, contact.Email, contact.Address, contact.Notes, contact.ID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return expectOne(res, entities.ErrContactNotFound)
}

func (r *SQLContactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM contacts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return expectOne(res, entities.ErrContactNotFound)
}

func (r *SQLContactRepository) List(ctx context.Context) ([]entities.Contact, error) {
	query := `SELECT id, name, phone, email, address, notes FROM contacts ORDER BY position`

	contacts := []entities.Contact{}
	if err := r.db.SelectContext(ctx, &contacts, query); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (r *SQLContactRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM contacts`); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

// SQLTaskRepository implements the TaskRepository interface over sqlx
type SQLTaskRepository struct {
	db *sqlx.DB
}

// NewSQLTaskRepository creates a new task repository
func NewSQLTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &SQLTaskRepository{db: db}
}

func (r *SQLTaskRepository) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, position, task, category, deadline, done)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks), ?, ?, ?, ?)`

	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		task.ID, task.Task, string(task.Category), task.Deadline, task.Done)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *SQLTaskRepository) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	query := `SELECT id, task, category, deadline, done FROM tasks WHERE id = ?`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, r.db.Rebind(query), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}
	return &task, nil
}

func (r *SQLTaskRepository) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET task = ?, category = ?, deadline = ?, done = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		task.Task, string(task.Category), task.Deadline, task.Done, task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectOne(res, entities.ErrTaskNotFound)
}

func (r *SQLTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOne(res, entities.ErrTaskNotFound)
}

func (r *SQLTaskRepository) List(ctx context.Context) ([]entities.Task, error) {
	query := `SELECT id, task, category, deadline, done FROM tasks ORDER BY position`

	tasks := []entities.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLTaskRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tasks`); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
