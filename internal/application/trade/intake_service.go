package trade

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IntakeService handles purchase intakes (goods received notes)
type IntakeService struct {
	intakeRepo     trade.PurchaseIntakeRepository
	vendorRepo     partner.VendorRepository
	itemRepo       inventory.StockItemRepository
	adjustmentRepo inventory.StockAdjustmentRepository
	txManager      shared.TxManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(
	intakeRepo trade.PurchaseIntakeRepository,
	vendorRepo partner.VendorRepository,
	itemRepo inventory.StockItemRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
	txManager shared.TxManager,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		intakeRepo:     intakeRepo,
		vendorRepo:     vendorRepo,
		itemRepo:       itemRepo,
		adjustmentRepo: adjustmentRepo,
		txManager:      txManager,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create creates a draft intake for an active vendor
func (s *IntakeService) Create(ctx context.Context, businessLineID uuid.UUID, req CreateIntakeRequest) (*IntakeResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, businessLineID, req.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsActive() {
		return nil, shared.NewDomainError("VENDOR_INACTIVE", "Vendor "+vendor.Code+" is inactive")
	}

	intake, err := trade.NewPurchaseIntake(businessLineID, req.IntakeNumber, vendor.ID, vendor.Name)
	if err != nil {
		return nil, err
	}
	if req.IntakeNumber != "" {
		exists, err := s.intakeRepo.ExistsByNumber(ctx, businessLineID, intake.IntakeNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Intake "+intake.IntakeNumber+" already exists")
		}
	}

	ids := make([]uuid.UUID, len(req.Items))
	for i, line := range req.Items {
		ids[i] = line.StockItemID
	}
	items, err := loadStockItems(ctx, s.itemRepo, businessLineID, ids)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Items {
		item := items[line.StockItemID]
		if !item.IsActive() {
			return nil, shared.NewDomainError(codeItemInactive, "Stock item "+item.SKU+" is inactive")
		}
		if err := intake.AddItem(item.ID, item.SKU, item.Name, line.Quantity, line.UnitCost); err != nil {
			return nil, err
		}
	}
	intake.Notes = req.Notes
	intake.SetCreatedBy(req.CreatedBy)

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.intakeRepo.Save(ctx, intake)
	})
	if err != nil {
		return nil, err
	}

	response := ToIntakeResponse(intake)
	return &response, nil
}

// GetByID retrieves an intake with its items
func (s *IntakeService) GetByID(ctx context.Context, businessLineID, id uuid.UUID) (*IntakeResponse, error) {
	intake, err := s.intakeRepo.FindByID(ctx, businessLineID, id)
	if err != nil {
		return nil, err
	}
	response := ToIntakeResponse(intake)
	return &response, nil
}

// List retrieves intakes with filtering and pagination
func (s *IntakeService) List(ctx context.Context, businessLineID uuid.UUID, filter IntakeListFilter) ([]IntakeResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		From:     filter.From,
		To:       filter.To,
		Filters:  make(map[string]any),
	}
	if filter.VendorID != "" {
		vendorID, err := uuid.Parse(filter.VendorID)
		if err != nil {
			return nil, 0, shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid vendor ID")
		}
		domainFilter.Filters["vendor_id"] = vendorID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter = domainFilter.Normalize()

	intakes, err := s.intakeRepo.FindAll(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.intakeRepo.Count(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]IntakeResponse, len(intakes))
	for i := range intakes {
		responses[i] = ToIntakeResponse(&intakes[i])
	}
	return responses, total, nil
}

// Receive books the intake into stock at its unit costs and adds the
// total to the vendor's payable balance
func (s *IntakeService) Receive(ctx context.Context, businessLineID, id, receivedBy uuid.UUID) (*IntakeResponse, error) {
	var intake *trade.PurchaseIntake
	var vendor *partner.Vendor
	var moved []*inventory.StockItem

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		intake, err = s.intakeRepo.FindByID(ctx, businessLineID, id)
		if err != nil {
			return err
		}
		if err := intake.Receive(); err != nil {
			return err
		}
		vendor, err = s.vendorRepo.FindByID(ctx, businessLineID, intake.VendorID)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(intake.Items))
		for i, line := range intake.Items {
			ids[i] = line.StockItemID
		}
		items, err := loadStockItems(ctx, s.itemRepo, businessLineID, ids)
		if err != nil {
			return err
		}
		adjustments := make([]*inventory.StockAdjustment, 0, len(intake.Items))
		for _, line := range intake.Items {
			adj, err := items[line.StockItemID].Receive(line.Quantity, line.UnitCost, intake.IntakeNumber)
			if err != nil {
				return err
			}
			adj.SetCreatedBy(receivedBy)
			adjustments = append(adjustments, adj)
		}

		moved = orderedItems(items, ids)
		if err := saveMovedItems(ctx, s.itemRepo, s.adjustmentRepo, moved, adjustments); err != nil {
			return err
		}
		if intake.Total.IsPositive() {
			if err := vendor.AddPayable(intake.Total); err != nil {
				return err
			}
			if err := s.vendorRepo.SaveWithLock(ctx, vendor); err != nil {
				return err
			}
		}
		return s.intakeRepo.SaveWithLock(ctx, intake)
	})
	if err != nil {
		return nil, err
	}

	for _, item := range moved {
		s.publish(ctx, item)
	}
	s.publish(ctx, vendor)
	s.publish(ctx, intake)
	s.logger.Info("Purchase intake received",
		zap.String("business_line_id", businessLineID.String()),
		zap.String("intake_number", intake.IntakeNumber),
		zap.String("vendor_id", intake.VendorID.String()),
		zap.String("total", intake.Total.StringFixed(2)))

	response := ToIntakeResponse(intake)
	return &response, nil
}

// Cancel discards a draft intake
func (s *IntakeService) Cancel(ctx context.Context, businessLineID, id uuid.UUID) (*IntakeResponse, error) {
	intake, err := s.intakeRepo.FindByID(ctx, businessLineID, id)
	if err != nil {
		return nil, err
	}
	if err := intake.Cancel(); err != nil {
		return nil, err
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.intakeRepo.SaveWithLock(ctx, intake)
	})
	if err != nil {
		return nil, err
	}
	response := ToIntakeResponse(intake)
	return &response, nil
}

func (s *IntakeService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, agg); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
