package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taskmaster/desk/internal/adapters/repository"
	"github.com/taskmaster/desk/internal/application/services"
	"github.com/taskmaster/desk/internal/infrastructure/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP API",
		Long:  "Serve contacts, tasks, the calculator and the game over HTTP on server.host:server.port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *App) error {
				return runServer(cmd.Context(), app, watch)
			})
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reload the JSON data files when they are edited by hand")
	return cmd
}

func runServer(ctx context.Context, app *App, watch bool) error {
	contacts, err := app.ContactService()
	if err != nil {
		return err
	}
	tasks, err := app.TaskService()
	if err != nil {
		return err
	}
	contactRepo, _ := app.ContactRepository()
	taskRepo, _ := app.TaskRepository()

	srv, err := server.New(app.Config, server.Services{
		Contacts:    contacts,
		Tasks:       tasks,
		Calc:        app.CalculatorService(),
		Game:        services.NewGameService(rand.New(rand.NewSource(time.Now().UnixNano())), app.Logger),
		Auth:        app.AuthService(),
		ContactRepo: contactRepo,
		TaskRepo:    taskRepo,
		DB:          app.db,
	}, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if watch {
		stores := app.watchedStores()
		if len(stores) == 0 {
			app.Logger.Warnw("Nothing to watch, storage driver is not json", "driver", app.Config.Storage.Driver)
		} else {
			w, err := repository.NewWatcher(app.Logger.WithComponent("watcher"), stores...)
			if err != nil {
				return err
			}
			g.Go(func() error {
				return w.Run(gctx)
			})
		}
	}

	addr := app.Config.Server.GetAddr()
	app.Logger.Infow("Starting desk API server",
		"address", addr,
		"storage", app.Config.Storage.Driver,
		"environment", app.Config.App.Environment,
	)

	g.Go(func() error {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
