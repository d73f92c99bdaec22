package manufacturing

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"github.com/mfg/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransferService handles personnel and mixture reassignments. Every
// successful transfer leaves exactly one immutable audit record, written in
// the same transaction as the change it describes.
type TransferService struct {
	transferRepo manufacturing.TransferRepository
	scope        TransactionScope
	directory    EmployeeDirectory
	logger       *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo manufacturing.TransferRepository,
	scope TransactionScope,
	directory EmployeeDirectory,
	logger *zap.Logger,
) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		transferRepo: transferRepo,
		scope:        scope,
		directory:    directory,
		logger:       logger,
	}
}

// TransferPersonnel substitutes the assignment slot held by FromID with a
// snapshot of ToID. Helpers are searched before operators; an employee
// holding no slot on the item is a not-found condition.
func (s *TransferService) TransferPersonnel(ctx context.Context, req PersonnelTransferRequest) (*TransferResponse, error) {
	if req.FromID == req.ToID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and target employee are the same")
	}

	to, err := s.directory.Snapshot(ctx, req.ToID)
	if err != nil {
		return nil, err
	}

	var transfer *manufacturing.Transfer

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		from, found := snapshotOnItem(item, req.FromID)
		if !found {
			return shared.NewDomainError("NOT_ASSIGNED", "Employee holds no assignment on this item")
		}

		role, ok := item.ReplacePersonnel(req.FromID, to)
		if !ok {
			return shared.NewDomainError("NOT_ASSIGNED", "Employee holds no assignment on this item")
		}
		item.AddDomainEvent(manufacturing.NewPersonnelTransferredEvent(item, role, req.FromID.String(), to.ID.String()))

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}

		transfer = manufacturing.NewPersonnelTransfer(item, role, from, to, req.Reason)
		return repos.TransferRepo().Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("personnel transferred",
		zap.String("item_no", transfer.ItemNo),
		zap.String("role", transfer.Role),
		zap.String("from", transfer.FromCode),
		zap.String("to", transfer.ToCode),
	)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// TransferMixture reassigns every task form the source employee filed
// against the item to the target employee. Zero matching forms means there
// is nothing to transfer and the request fails.
func (s *TransferService) TransferMixture(ctx context.Context, req MixtureTransferRequest) (*TransferResponse, error) {
	if req.FromID == req.ToID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and target employee are the same")
	}

	from, err := s.directory.Snapshot(ctx, req.FromID)
	if err != nil {
		return nil, err
	}
	to, err := s.directory.Snapshot(ctx, req.ToID)
	if err != nil {
		return nil, err
	}

	var transfer *manufacturing.Transfer

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		formIDs, err := repos.TaskFormRepo().ReassignOwnership(ctx, item.ID, req.FromID, req.ToID, to.Name)
		if err != nil {
			return err
		}
		if len(formIDs) == 0 {
			return shared.NewDomainError("NOT_FOUND", "No task forms found for this employee on this item")
		}

		transfer = manufacturing.NewMixtureTransfer(item, from, to, req.Reason, formIDs)
		return repos.TransferRepo().Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("mixture transferred",
		zap.String("item_no", transfer.ItemNo),
		zap.Int("task_forms", len(transfer.TaskFormIDs)),
		zap.String("from", transfer.FromCode),
		zap.String("to", transfer.ToCode),
	)

	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetByID retrieves a transfer audit record
func (s *TransferService) GetByID(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// List retrieves transfer records with pagination. EmployeeID matches
// either side of a transfer.
func (s *TransferService) List(ctx context.Context, filter TransferListFilter) ([]TransferResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "created_at"
	domainFilter.OrderDir = "desc"
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.EmployeeID != nil {
		domainFilter.Filters["employee_id"] = *filter.EmployeeID
	}

	result, err := s.transferRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransferResponses(result.Items), result.Total, nil
}

// ListByItem retrieves the full transfer history of one item
func (s *TransferService) ListByItem(ctx context.Context, itemID uuid.UUID) ([]TransferResponse, error) {
	transfers, err := s.transferRepo.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return ToTransferResponses(transfers), nil
}

// snapshotOnItem finds the snapshot an employee currently holds on the item
func snapshotOnItem(item *manufacturing.Item, employeeID uuid.UUID) (manufacturing.EmployeeSnapshot, bool) {
	for _, s := range item.Helpers {
		if s.ID == employeeID {
			return s, true
		}
	}
	for _, s := range item.Operators {
		if s.ID == employeeID {
			return s, true
		}
	}
	return manufacturing.EmployeeSnapshot{}, false
}
