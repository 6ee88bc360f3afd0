package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/lead-management/internal/entity"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the catalogues with sample records",
	Long:  `Seed the role, permission and lead status catalogues for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, store, err := initStorage(cfg.Storage)
		if err != nil {
			log.Fatalf("failed to init storage: %v", err)
		}
		if db != nil {
			defer db.Close()
		}

		if err := seedCatalogues(context.Background(), store, clearData); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

func seedCatalogues(ctx context.Context, store storage.Adapter, clear bool) error {
	lg := logger.L()

	if clear {
		for _, k := range entity.Kinds() {
			if err := store.Remove(ctx, k.StorageKey); err != nil {
				return fmt.Errorf("clear %s: %w", k.StorageKey, err)
			}
		}
		lg.Info("cleared catalogues")
	}

	steps := []struct {
		key  string
		seed func() error
	}{
		{storage.KeyRoles, func() error {
			return seedIfEmpty(ctx, store, storage.KeyRoles, []entity.Role{
				{RoleName: "Admin", Status: entity.StatusActive},
				{RoleName: "Supervisor", Status: entity.StatusActive},
				{RoleName: "Agent", Status: entity.StatusActive},
				{RoleName: "Auditor", Status: entity.StatusInactive},
			})
		}},
		{storage.KeyPermissions, func() error {
			return seedIfEmpty(ctx, store, storage.KeyPermissions, []entity.Permission{
				{Name: entity.PermissionEdit, Status: entity.StatusActive},
				{Name: entity.PermissionUpdate, Status: entity.StatusActive},
				{Name: entity.PermissionDelete, Status: entity.StatusInactive},
			})
		}},
		{storage.KeyRolePermissions, func() error {
			return seedIfEmpty(ctx, store, storage.KeyRolePermissions, []entity.RolePermission{
				{RoleName: "Admin", PermissionNames: entity.PermissionNames(), Status: entity.StatusActive},
				{RoleName: "Agent", PermissionNames: []string{entity.PermissionEdit}, Status: entity.StatusActive},
			})
		}},
		{storage.KeyBankTypes, func() error {
			return seedIfEmpty(ctx, store, storage.KeyBankTypes, []entity.BankType{
				{Name: "Bank BCA", Status: entity.StatusActive},
				{Name: "Bank Mandiri", Status: entity.StatusActive},
				{Name: "Bank BRI", Status: entity.StatusInactive},
			})
		}},
		{storage.KeyLegalStatuses, func() error {
			return seedIfEmpty(ctx, store, storage.KeyLegalStatuses, []entity.LegalStatus{
				{Name: "Somasi", Status: entity.StatusActive},
				{Name: "Gugatan", Status: entity.StatusActive},
			})
		}},
		{storage.KeyTypesOfCredit, func() error {
			return seedIfEmpty(ctx, store, storage.KeyTypesOfCredit, []entity.TypeOfCredit{
				{Name: "KPR", Status: entity.StatusActive},
				{Name: "Kartu Kredit", Status: entity.StatusActive},
				{Name: "KTA", Status: entity.StatusInactive},
			})
		}},
	}

	for _, step := range steps {
		if err := step.seed(); err != nil {
			return fmt.Errorf("seed %s: %w", step.key, err)
		}
	}
	lg.Info("seeded catalogues")
	return nil
}

// seedIfEmpty leaves collections that already hold records alone.
func seedIfEmpty[T any](ctx context.Context, store storage.Adapter, key string, records []T) error {
	if existing := storage.Load[T](ctx, store, key); len(existing) > 0 {
		logger.L().Info("collection already seeded", "key", key, "records", len(existing))
		return nil
	}
	return storage.Save(ctx, store, key, records)
}
