package database

import (
	"context"
	"fmt"

	"bailanysta/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Follow{},
	}
}

// ApplySchema creates or updates every table and index the feed engine relies on.
func ApplySchema(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// SchemaStatus reports which persistent tables exist.
type SchemaStatus struct {
	Tables  map[string]bool
	Missing []string
}

// GetSchemaStatus inspects the live database without changing it.
func GetSchemaStatus(ctx context.Context, db *gorm.DB) (*SchemaStatus, error) {
	status := &SchemaStatus{Tables: make(map[string]bool)}
	migrator := db.WithContext(ctx).Migrator()

	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		exists := migrator.HasTable(model)
		status.Tables[stmt.Schema.Table] = exists
		if !exists {
			status.Missing = append(status.Missing, stmt.Schema.Table)
		}
	}
	return status, nil
}
