package manufacturing

import (
	"context"

	"github.com/mfg/backend/internal/domain/manufacturing"
)

// TransactionScope provides transactional access to manufacturing
// repositories. A transfer writes the item (or task forms) and its audit
// record atomically; a partial write would leave an unexplained
// reassignment.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to manufacturing repositories
// scoped to the current transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the item repository scoped to the current transaction
	ItemRepo() manufacturing.ItemRepository
	// TransferRepo returns the transfer repository scoped to the current transaction
	TransferRepo() manufacturing.TransferRepository
	// TaskFormRepo returns the task form repository scoped to the current transaction
	TaskFormRepo() manufacturing.TaskFormRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing.
type NoOpTransactionScope struct {
	itemRepo     manufacturing.ItemRepository
	transferRepo manufacturing.TransferRepository
	taskFormRepo manufacturing.TaskFormRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo manufacturing.ItemRepository,
	transferRepo manufacturing.TransferRepository,
	taskFormRepo manufacturing.TaskFormRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:     itemRepo,
		transferRepo: transferRepo,
		taskFormRepo: taskFormRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the item repository.
func (s *NoOpTransactionScope) ItemRepo() manufacturing.ItemRepository {
	return s.itemRepo
}

// TransferRepo returns the transfer repository.
func (s *NoOpTransactionScope) TransferRepo() manufacturing.TransferRepository {
	return s.transferRepo
}

// TaskFormRepo returns the task form repository.
func (s *NoOpTransactionScope) TaskFormRepo() manufacturing.TaskFormRepository {
	return s.taskFormRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
