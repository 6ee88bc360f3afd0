package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/lead-management/api"
	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/core/events"
	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/internal/storage/memory"
	"github.com/frahmantamala/lead-management/internal/storage/postgres"
	"github.com/frahmantamala/lead-management/internal/transport/rest"
	"github.com/frahmantamala/lead-management/internal/transport/swagger"
	"github.com/frahmantamala/lead-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

const inboxSize = 50

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the console HTTP server`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *sqlx.DB
	Store   storage.Adapter
	Session *session.Controller
	Bus     *events.EventBus
	Inbox   *events.Inbox
	OpenAPI *swagger.Document
	Router  *chi.Mux
	Logger  *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "storage", deps.Config.Storage.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	// Protected views answer 503 until this settles.
	go func() {
		state := deps.Session.Initialize(context.Background())
		deps.Logger.Info("Session initialized", "state", state)
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			closeDB(deps)
			os.Exit(1)
		}
	}

	closeDB(deps)
	deps.Logger.Info("Server stopped")
}

func closeDB(deps *Dependencies) {
	if deps.DB == nil {
		return
	}
	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) {
	routeDeps := rest.RouterDeps{
		Config:  deps.Config,
		Store:   deps.Store,
		Session: deps.Session,
		Bus:     deps.Bus,
		Inbox:   deps.Inbox,
		OpenAPI: deps.OpenAPI,
		Logger:  deps.Logger,
	}
	if deps.DB != nil {
		routeDeps.DB = deps.DB.DB
	}
	rest.RegisterAllRoutes(deps.Router, routeDeps)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.L()

	db, store, err := initStorage(config.Storage)
	if err != nil {
		return nil, err
	}

	doc, err := swagger.Load(context.Background(), api.OpenAPI)
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBus(lg)
	inbox := events.NewInbox(inboxSize)
	inbox.Attach(bus)

	client := session.NewClient(session.ClientConfig{
		BaseURL: config.Account.BaseURL,
		Timeout: config.Account.Timeout,
	}, store, lg)
	sessionController := session.NewController(store, client, newVerifier(config.Session), bus, lg)

	return &Dependencies{
		Config:  config,
		DB:      db,
		Store:   store,
		Session: sessionController,
		Bus:     bus,
		Inbox:   inbox,
		OpenAPI: doc,
		Router:  chi.NewRouter(),
		Logger:  lg,
	}, nil
}

// initStorage builds the key-value adapter for the configured driver. The
// memory driver has no database and returns a nil *sqlx.DB.
func initStorage(cfg internal.StorageConfig) (*sqlx.DB, storage.Adapter, error) {
	var (
		db    *sqlx.DB
		store storage.Adapter
	)

	if cfg.Driver == internal.StorageDriverMemory {
		store = memory.NewStore()
	} else {
		var err error
		db, err = initDB(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		gormDB, err := openGorm(db, cfg.Driver)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		store = postgres.NewStore(gormDB)
	}

	if cfg.CacheSize > 0 {
		cached, err := storage.NewCached(store, cfg.CacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build storage cache: %w", err)
		}
		store = cached
	}

	return db, store, nil
}

func newVerifier(cfg internal.SessionConfig) session.TokenVerifier {
	if cfg.VerifyToken == internal.TokenVerifyJWTExpiry {
		return session.JWTExpiryVerifier{Now: time.Now}
	}
	return session.PresenceVerifier{}
}
