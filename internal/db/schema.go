package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"parliament-interests/internal/domain/ingest"
	"parliament-interests/internal/domain/interests"
	"parliament-interests/internal/domain/members"
)

// Models lists every persisted type, referenced tables first.
func Models() []any {
	return []any{
		&members.Party{},
		&members.Member{},
		&interests.InterestCategory{},
		&interests.Interest{},
		&interests.InterestField{},
		&interests.MonetaryValueField{},
		&ingest.CompletedRun{},
	}
}

// EnsureSchema creates missing tables, columns and indexes. It never drops
// anything, so calling it on a populated store is safe.
func EnsureSchema(ctx context.Context, gormDB *gorm.DB) error {
	if err := gormDB.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
