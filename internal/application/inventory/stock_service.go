package inventory

import (
	"context"
	"time"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const openingBalanceReason = "Opening balance"

var nowFunc = time.Now

// StockService handles stock items, manual adjustments and inventory counts.
// Every quantity change is written together with its adjustment row.
type StockService struct {
	itemRepo       inventory.StockItemRepository
	adjustmentRepo inventory.StockAdjustmentRepository
	txManager      shared.TxManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	itemRepo inventory.StockItemRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
	txManager shared.TxManager,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		itemRepo:       itemRepo,
		adjustmentRepo: adjustmentRepo,
		txManager:      txManager,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateItem creates a stock item, booking any opening quantity as a count
func (s *StockService) CreateItem(ctx context.Context, businessLineID uuid.UUID, req CreateStockItemRequest) (*StockItemResponse, error) {
	item, err := inventory.NewStockItem(businessLineID, req.SKU, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}

	exists, err := s.itemRepo.ExistsBySKU(ctx, businessLineID, item.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Stock item with SKU "+item.SKU+" already exists")
	}

	if req.ReorderLevel != nil || req.SalePrice != nil {
		reorder, price := item.ReorderLevel, item.SalePrice
		if req.ReorderLevel != nil {
			reorder = *req.ReorderLevel
		}
		if req.SalePrice != nil {
			price = *req.SalePrice
		}
		if err := item.Update(item.Name, item.Unit, reorder, price); err != nil {
			return nil, err
		}
	}
	if req.UnitCost != nil {
		if err := item.SetOpeningCost(*req.UnitCost); err != nil {
			return nil, err
		}
	}
	item.SetCreatedBy(req.CreatedBy)

	var opening *inventory.StockAdjustment
	if req.OpeningQuantity != nil && req.OpeningQuantity.IsPositive() {
		opening, err = item.Count(*req.OpeningQuantity, openingBalanceReason, "")
		if err != nil {
			return nil, err
		}
		opening.SetCreatedBy(req.CreatedBy)
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.itemRepo.Save(ctx, item); err != nil {
			return err
		}
		if opening != nil {
			return s.adjustmentRepo.Create(ctx, opening)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, item)

	response := ToStockItemResponse(item)
	return &response, nil
}

// GetItem retrieves a stock item by ID
func (s *StockService) GetItem(ctx context.Context, businessLineID, itemID uuid.UUID) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, businessLineID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToStockItemResponse(item)
	return &response, nil
}

// ListItems retrieves stock items with filtering and pagination
func (s *StockService) ListItems(ctx context.Context, businessLineID uuid.UUID, filter StockItemListFilter) ([]StockItemResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "sku"
		domainFilter.OrderDir = "asc"
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}
	domainFilter = domainFilter.Normalize()

	items, err := s.itemRepo.FindAll(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStockItemResponses(items), total, nil
}

// LowStock lists active items at or below their reorder level
func (s *StockService) LowStock(ctx context.Context, businessLineID uuid.UUID) ([]StockItemResponse, error) {
	items, err := s.itemRepo.FindLowStock(ctx, businessLineID)
	if err != nil {
		return nil, err
	}
	return ToStockItemResponses(items), nil
}

// UpdateItem applies a partial update. Quantity only changes through adjustments.
func (s *StockService) UpdateItem(ctx context.Context, businessLineID, itemID uuid.UUID, req UpdateStockItemRequest) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, businessLineID, itemID)
	if err != nil {
		return nil, err
	}

	name, unit := item.Name, item.Unit
	reorder, price := item.ReorderLevel, item.SalePrice
	if req.Name != nil {
		name = *req.Name
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if req.ReorderLevel != nil {
		reorder = *req.ReorderLevel
	}
	if req.SalePrice != nil {
		price = *req.SalePrice
	}
	if err := item.Update(name, unit, reorder, price); err != nil {
		return nil, err
	}
	if req.Active != nil && *req.Active != item.IsActive() {
		if *req.Active {
			err = item.Activate()
		} else {
			err = item.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, item)

	response := ToStockItemResponse(item)
	return &response, nil
}

// DeleteItem deletes an item that has never moved
func (s *StockService) DeleteItem(ctx context.Context, businessLineID, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, businessLineID, itemID)
	if err != nil {
		return err
	}
	deps, err := s.itemRepo.CountDependencies(ctx, businessLineID, itemID)
	if err != nil {
		return err
	}
	if deps.HasAny() {
		return shared.NewHasDependenciesError("Stock item "+item.SKU, deps)
	}
	if err := s.itemRepo.Delete(ctx, businessLineID, itemID); err != nil {
		return err
	}
	item.MarkDeleted()
	s.publishDomainEvents(ctx, item)
	return nil
}

// Adjust posts a manual CORRECTION or DAMAGE adjustment
func (s *StockService) Adjust(ctx context.Context, businessLineID uuid.UUID, req AdjustStockRequest) (*AdjustmentResponse, error) {
	var item *inventory.StockItem
	var adj *inventory.StockAdjustment

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.itemRepo.FindByID(ctx, businessLineID, req.StockItemID)
		if err != nil {
			return err
		}
		adj, err = item.Adjust(inventory.AdjustmentType(req.Type), req.Delta, req.Reason)
		if err != nil {
			return err
		}
		adj.SetCreatedBy(req.CreatedBy)
		if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
			return err
		}
		return s.adjustmentRepo.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, item)

	response := ToAdjustmentResponse(adj)
	return &response, nil
}

// Count records a physical inventory count. Items whose counted quantity
// equals the book quantity produce no adjustment.
func (s *StockService) Count(ctx context.Context, businessLineID uuid.UUID, req StockCountRequest) (*StockCountResult, error) {
	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		for _, seen := range ids {
			if seen == line.StockItemID {
				return nil, shared.NewDomainError("DUPLICATE_ITEM", "Item "+line.StockItemID.String()+" is counted twice")
			}
		}
		ids = append(ids, line.StockItemID)
	}
	reference := req.Reference
	if reference == "" {
		reference = shared.GenerateDocumentNumber("CNT", nowFunc())
	}

	result := &StockCountResult{
		Adjustments: make([]AdjustmentResponse, 0, len(req.Lines)),
		Unchanged:   make([]uuid.UUID, 0),
	}
	var touched []*inventory.StockItem

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		items, err := s.itemRepo.FindByIDs(ctx, businessLineID, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*inventory.StockItem, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		adjustments := make([]*inventory.StockAdjustment, 0, len(req.Lines))
		for _, line := range req.Lines {
			item, ok := byID[line.StockItemID]
			if !ok {
				return shared.NewDomainError(shared.ErrNotFound.Code, "Stock item "+line.StockItemID.String()+" not found")
			}
			adj, err := item.Count(line.Counted, req.Reason, reference)
			if err != nil {
				return err
			}
			if adj == nil {
				result.Unchanged = append(result.Unchanged, item.ID)
				continue
			}
			adj.SetCreatedBy(req.CreatedBy)
			if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
				return err
			}
			adjustments = append(adjustments, adj)
			touched = append(touched, item)
		}
		if len(adjustments) == 0 {
			return nil
		}
		if err := s.adjustmentRepo.Create(ctx, adjustments...); err != nil {
			return err
		}
		for _, adj := range adjustments {
			result.Adjustments = append(result.Adjustments, ToAdjustmentResponse(adj))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range touched {
		s.publishDomainEvents(ctx, item)
	}
	s.logger.Info("Inventory count recorded",
		zap.String("business_line_id", businessLineID.String()),
		zap.String("reference", reference),
		zap.Int("adjusted", len(result.Adjustments)),
		zap.Int("unchanged", len(result.Unchanged)))
	return result, nil
}

// ListAdjustments retrieves the adjustment ledger
func (s *StockService) ListAdjustments(ctx context.Context, businessLineID uuid.UUID, filter AdjustmentListFilter) ([]AdjustmentResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		From:     filter.From,
		To:       filter.To,
		Filters:  make(map[string]any),
	}
	if filter.StockItemID != "" {
		itemID, err := uuid.Parse(filter.StockItemID)
		if err != nil {
			return nil, 0, shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid stock item ID")
		}
		domainFilter.Filters["stock_item_id"] = itemID
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	domainFilter = domainFilter.Normalize()

	rows, err := s.adjustmentRepo.FindAll(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.adjustmentRepo.Count(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AdjustmentResponse, len(rows))
	for i := range rows {
		responses[i] = ToAdjustmentResponse(&rows[i])
	}
	return responses, total, nil
}

// publishDomainEvents publishes and clears the events of a stock item
func (s *StockService) publishDomainEvents(ctx context.Context, item *inventory.StockItem) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, item); err != nil {
		s.logger.Warn("Failed to publish stock events", zap.Error(err))
	}
}
