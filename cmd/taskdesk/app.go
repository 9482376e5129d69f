package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskdesk/internal/access"
	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/console"
	"github.com/phrazzld/taskdesk/internal/credstore"
	"github.com/phrazzld/taskdesk/internal/events"
	"github.com/phrazzld/taskdesk/internal/gateway"
	"github.com/phrazzld/taskdesk/internal/notify"
	"github.com/phrazzld/taskdesk/internal/session"
	"github.com/phrazzld/taskdesk/internal/tasks"
)

// application holds the wired components.
type application struct {
	config *config.Config
	logger *slog.Logger

	store     credstore.Store
	navigator *access.Navigator
	emitter   *events.FaultBus
	client    *gateway.Client
	guard     *session.Guard
	watcher   *session.Coordinator
	engine    *tasks.Engine
	tasks     *tasks.Coordinator
	notices   *notify.Board
	console   *console.Console
}

// newApplication wires every component from cfg. Nothing is started.
func newApplication(cfg *config.Config, logger *slog.Logger, opts ...gateway.ClientOption) (*application, error) {
	app := &application{config: cfg, logger: logger}

	store, err := newStore(cfg.Session, logger)
	if err != nil {
		return nil, err
	}
	app.store = store

	app.navigator = access.NewNavigator(cfg.Session.EntryRoute)
	app.emitter = events.NewFaultBus(logger)

	// The client reads tokens through the guard, which is built next.
	app.client, err = gateway.NewClient(
		cfg.Remote,
		cfg.Session.EntryRoute,
		gateway.TokenFunc(func() string { return app.guard.Token() }),
		app.navigator,
		app.emitter,
		logger,
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway client: %w", err)
	}
	app.guard = session.NewGuard(app.store, app.client, app.navigator, cfg.Session, logger)

	app.watcher = session.NewCoordinator(app.guard, app.store, cfg.Session.PollInterval, logger)
	app.emitter.Subscribe(app.watcher)

	app.engine = tasks.NewEngine(app.client, cfg.Tasks.PageSize, logger)
	app.tasks = tasks.NewCoordinator(app.client, app.engine, cfg.Tasks.DeleteConfirmTTL, logger)
	app.notices = notify.NewBoard(notify.NewFactory(cfg.Notices))

	app.console = console.New(console.Deps{
		Session:    app.guard,
		Directory:  app.client,
		Controller: access.NewController(app.guard, app.navigator, cfg.Session.EntryRoute, logger),
		Navigator:  app.navigator,
		Engine:     app.engine,
		Tasks:      app.tasks,
		Notices:    app.notices,
		Config:     cfg.Session,
		Logger:     logger,
	})

	return app, nil
}

func newStore(cfg config.SessionConfig, logger *slog.Logger) (credstore.Store, error) {
	switch cfg.Store {
	case "memory":
		return credstore.NewMemoryStore(), nil
	case "file":
		return credstore.NewFileStore(cfg.StorePath, logger), nil
	default:
		return nil, fmt.Errorf("unknown credential store %q", cfg.Store)
	}
}
