package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/account"
	accountRepository "github.com/frahmantamala/lead-management/internal/account/postgres"
	accountDatamodel "github.com/frahmantamala/lead-management/internal/core/datamodel/account"
	"github.com/frahmantamala/lead-management/internal/transport"
	"github.com/frahmantamala/lead-management/internal/transport/middleware"
	"github.com/frahmantamala/lead-management/pkg/logger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var accountStubCmd = &cobra.Command{
	Use:   "account-stub",
	Short: "Start a local account service for development",
	Long:  `Serves /api/account/login and /api/account/register so the console can log in without the real account service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startAccountStub()
	},
}

func startAccountStub() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Security.Validate(); err != nil {
		return fmt.Errorf("security config: %w", err)
	}
	lg := logger.L()

	gormDB, closeDB, err := openAccountDB(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeDB()

	svc := account.NewService(
		accountRepository.NewAccountRepository(gormDB),
		cfg.Security.JWTSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.BCryptCost,
		lg,
	)
	handler := account.NewHandler(transport.NewBaseHandler(lg), svc)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware(lg))
	handler.Routes(router)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Security.StubPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		lg.Info("Starting account stub", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

// openAccountDB reuses the console database. With memory storage the stub
// keeps accounts in a private in-memory SQLite database.
func openAccountDB(cfg internal.StorageConfig) (*gorm.DB, func(), error) {
	if cfg.Driver == internal.StorageDriverMemory {
		gormDB, err := gorm.Open(sqlite.Open("file:accounts?mode=memory&cache=shared"), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open in-memory account db: %w", err)
		}
		if err := gormDB.AutoMigrate(&accountDatamodel.Account{}); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate account table: %w", err)
		}
		return gormDB, func() {}, nil
	}

	db, err := initDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	gormDB, err := openGorm(db, cfg.Driver)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return gormDB, func() { _ = db.Close() }, nil
}
