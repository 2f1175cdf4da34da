package commands

import (
	"errors"
	"fmt"

	"github.com/taskmaster/desk/internal/adapters/repository"
	"github.com/taskmaster/desk/internal/application/services"
	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/config"
	"github.com/taskmaster/desk/internal/infrastructure/database"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// App wires configuration, storage and services for one command run. Stores
// are opened on first use so a contacts command never locks the to-do file.
type App struct {
	Config *config.Config
	Logger *logger.Logger

	resetCorrupt bool
	db           *database.DB
	contactStore *repository.ContactStore
	taskStore    *repository.TaskStore
	contactRepo  ports.ContactRepository
	taskRepo     ports.TaskRepository
}

func newApp(opts *rootOptions) (*App, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.dataDir != "" {
		cfg.Storage.DataDir = opts.dataDir
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &App{
		Config:       cfg,
		Logger:       appLogger,
		resetCorrupt: opts.resetCorrupt,
	}, nil
}

// Close releases store locks and the database connection
func (a *App) Close() error {
	var errs []error
	if a.contactStore != nil {
		errs = append(errs, a.contactStore.Close())
	}
	if a.taskStore != nil {
		errs = append(errs, a.taskStore.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	_ = a.Logger.Close()
	return errors.Join(errs...)
}

func (a *App) database() (*database.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.New(a.Config.Storage)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *App) storeOptions() repository.FileStoreOptions {
	return repository.FileStoreOptions{
		Backup:       a.Config.Storage.Backup,
		ResetCorrupt: a.resetCorrupt,
	}
}

// ContactRepository opens the configured contact storage
func (a *App) ContactRepository() (ports.ContactRepository, error) {
	if a.contactRepo != nil {
		return a.contactRepo, nil
	}

	if a.Config.Storage.IsSQL() {
		db, err := a.database()
		if err != nil {
			return nil, err
		}
		a.contactRepo = repository.NewSQLContactRepository(db.DB)
		return a.contactRepo, nil
	}

	store, err := repository.OpenFileStore[entities.Contact](a.Config.Storage.ContactsPath(), a.storeOptions())
	if err != nil {
		return nil, storeError(err)
	}
	a.contactStore = store
	a.contactRepo = repository.NewJSONContactRepository(store)
	return a.contactRepo, nil
}

// TaskRepository opens the configured task storage
func (a *App) TaskRepository() (ports.TaskRepository, error) {
	if a.taskRepo != nil {
		return a.taskRepo, nil
	}

	if a.Config.Storage.IsSQL() {
		db, err := a.database()
		if err != nil {
			return nil, err
		}
		a.taskRepo = repository.NewSQLTaskRepository(db.DB)
		return a.taskRepo, nil
	}

	store, err := repository.OpenFileStore[entities.Task](a.Config.Storage.TasksPath(), a.storeOptions())
	if err != nil {
		return nil, storeError(err)
	}
	a.taskStore = store
	a.taskRepo = repository.NewJSONTaskRepository(store)
	return a.taskRepo, nil
}

func (a *App) ContactService() (*services.ContactService, error) {
	repo, err := a.ContactRepository()
	if err != nil {
		return nil, err
	}
	return services.NewContactService(repo, a.Logger), nil
}

func (a *App) TaskService() (*services.TaskService, error) {
	repo, err := a.TaskRepository()
	if err != nil {
		return nil, err
	}
	return services.NewTaskService(repo, a.Logger), nil
}

func (a *App) CalculatorService() *services.CalculatorService {
	return services.NewCalculatorService(a.Config.Calc, a.Logger)
}

func (a *App) AuthService() *services.AuthService {
	return services.NewAuthService(a.Config.JWT, a.Logger)
}

// watchedStores lists the JSON stores opened so far
func (a *App) watchedStores() []repository.Reloader {
	var out []repository.Reloader
	if a.contactStore != nil {
		out = append(out, a.contactStore)
	}
	if a.taskStore != nil {
		out = append(out, a.taskStore)
	}
	return out
}

// storeError adds the recovery hint to corrupt or locked data files
func storeError(err error) error {
	switch {
	case errors.Is(err, entities.ErrCorruptStore):
		return fmt.Errorf("%w\nrun again with --reset-corrupt to move the file aside and start with an empty list", err)
	case errors.Is(err, entities.ErrStoreLocked):
		return fmt.Errorf("%w\nanother desk process is using this file", err)
	}
	return err
}
