package persistence

import (
	"context"

	appmfg "github.com/mfg/backend/internal/application/manufacturing"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"gorm.io/gorm"
)

// GormManufacturingTransactionScope implements the manufacturing
// TransactionScope using GORM transactions. Transfers write the item or
// task forms and their audit record atomically through it.
type GormManufacturingTransactionScope struct {
	db *gorm.DB
}

// NewGormManufacturingTransactionScope creates a new GormManufacturingTransactionScope
func NewGormManufacturingTransactionScope(db *gorm.DB) *GormManufacturingTransactionScope {
	return &GormManufacturingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormManufacturingTransactionScope) Execute(ctx context.Context, fn func(repos appmfg.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormManufacturingRepositories{tx: tx})
	})
}

type gormManufacturingRepositories struct {
	tx *gorm.DB
}

// ItemRepo returns the item repository scoped to the current transaction
func (r *gormManufacturingRepositories) ItemRepo() manufacturing.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// TransferRepo returns the transfer repository scoped to the current transaction
func (r *gormManufacturingRepositories) TransferRepo() manufacturing.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

// TaskFormRepo returns the task form repository scoped to the current transaction
func (r *gormManufacturingRepositories) TaskFormRepo() manufacturing.TaskFormRepository {
	return NewGormTaskFormRepository(r.tx)
}

var _ appmfg.TransactionScope = (*GormManufacturingTransactionScope)(nil)
var _ appmfg.TransactionalRepositories = (*gormManufacturingRepositories)(nil)
