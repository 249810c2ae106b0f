package trade

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService handles sales invoices.
// Issuing deducts stock and voiding returns it, both inside one transaction
// together with the invoice update.
type InvoiceService struct {
	invoiceRepo    trade.SalesInvoiceRepository
	customerRepo   partner.CustomerRepository
	itemRepo       inventory.StockItemRepository
	adjustmentRepo inventory.StockAdjustmentRepository
	txManager      shared.TxManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo trade.SalesInvoiceRepository,
	customerRepo partner.CustomerRepository,
	itemRepo inventory.StockItemRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
	txManager shared.TxManager,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		customerRepo:   customerRepo,
		itemRepo:       itemRepo,
		adjustmentRepo: adjustmentRepo,
		txManager:      txManager,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create creates a draft invoice for an active customer
func (s *InvoiceService) Create(ctx context.Context, businessLineID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, businessLineID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Customer "+customer.Code+" is inactive")
	}

	inv, err := trade.NewSalesInvoice(businessLineID, req.InvoiceNumber, customer.ID, customer.Name)
	if err != nil {
		return nil, err
	}
	if req.InvoiceNumber != "" {
		exists, err := s.invoiceRepo.ExistsByNumber(ctx, businessLineID, inv.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Invoice "+inv.InvoiceNumber+" already exists")
		}
	}

	if err := s.addLines(ctx, inv, req.Items); err != nil {
		return nil, err
	}
	if req.Discount != nil {
		if err := inv.SetDiscount(*req.Discount); err != nil {
			return nil, err
		}
	}
	inv.SetDueDate(req.DueDate)
	inv.Notes = req.Notes
	inv.SetCreatedBy(req.CreatedBy)

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.invoiceRepo.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves an invoice with its items
func (s *InvoiceService) GetByID(ctx context.Context, businessLineID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, businessLineID, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, businessLineID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
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
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid customer ID")
		}
		domainFilter.Filters["customer_id"] = customerID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter = domainFilter.Normalize()

	invoices, err := s.invoiceRepo.FindAll(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toInvoiceResponses(invoices), total, nil
}

// Unpaid lists the issued invoices of a customer that still have an outstanding amount
func (s *InvoiceService) Unpaid(ctx context.Context, businessLineID, customerID uuid.UUID) ([]InvoiceResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, businessLineID, customerID); err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.FindUnpaidByCustomer(ctx, businessLineID, customerID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponses(invoices), nil
}

// Update edits a draft. Replacing the items keeps the previous discount
// as far as the new subtotal allows.
func (s *InvoiceService) Update(ctx context.Context, businessLineID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, businessLineID, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft invoices can be edited")
	}

	if req.Items != nil {
		previousDiscount := inv.Discount
		if err := inv.ClearItems(); err != nil {
			return nil, err
		}
		if err := s.addLines(ctx, inv, req.Items); err != nil {
			return nil, err
		}
		if req.Discount == nil && previousDiscount.IsPositive() {
			if err := inv.SetDiscount(decimal.Min(previousDiscount, inv.Subtotal)); err != nil {
				return nil, err
			}
		}
	}
	if req.Discount != nil {
		if err := inv.SetDiscount(*req.Discount); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		inv.SetDueDate(req.DueDate)
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.invoiceRepo.SaveWithLock(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Issue finalizes a draft and deducts its quantities from stock.
// The whole invoice fails when any line lacks stock.
func (s *InvoiceService) Issue(ctx context.Context, businessLineID, id, issuedBy uuid.UUID) (*InvoiceResponse, error) {
	var inv *trade.SalesInvoice
	var moved []*inventory.StockItem

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoiceRepo.FindByID(ctx, businessLineID, id)
		if err != nil {
			return err
		}
		if !inv.IsDraft() {
			return shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft invoices can be issued")
		}

		ids := invoiceItemIDs(inv)
		items, err := loadStockItems(ctx, s.itemRepo, businessLineID, ids)
		if err != nil {
			return err
		}
		adjustments := make([]*inventory.StockAdjustment, 0, len(inv.Items))
		for _, line := range inv.Items {
			adj, err := items[line.StockItemID].Issue(line.Quantity, inv.InvoiceNumber)
			if err != nil {
				return err
			}
			adj.SetCreatedBy(issuedBy)
			adjustments = append(adjustments, adj)
		}
		if err := inv.Issue(); err != nil {
			return err
		}

		moved = orderedItems(items, ids)
		if err := saveMovedItems(ctx, s.itemRepo, s.adjustmentRepo, moved, adjustments); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, inv, moved)
	s.logger.Info("Invoice issued",
		zap.String("business_line_id", businessLineID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total", inv.Total.StringFixed(2)))

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Void cancels an issued invoice with nothing applied and returns its stock
func (s *InvoiceService) Void(ctx context.Context, businessLineID, id uuid.UUID, req VoidInvoiceRequest, voidedBy uuid.UUID) (*InvoiceResponse, error) {
	var inv *trade.SalesInvoice
	var moved []*inventory.StockItem

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.invoiceRepo.FindByID(ctx, businessLineID, id)
		if err != nil {
			return err
		}
		if err := inv.Void(req.Reason); err != nil {
			return err
		}

		ids := invoiceItemIDs(inv)
		items, err := loadStockItems(ctx, s.itemRepo, businessLineID, ids)
		if err != nil {
			return err
		}
		adjustments := make([]*inventory.StockAdjustment, 0, len(inv.Items))
		for _, line := range inv.Items {
			adj, err := items[line.StockItemID].ReturnToStock(line.Quantity, inv.InvoiceNumber)
			if err != nil {
				return err
			}
			adj.SetCreatedBy(voidedBy)
			adjustments = append(adjustments, adj)
		}

		moved = orderedItems(items, ids)
		if err := saveMovedItems(ctx, s.itemRepo, s.adjustmentRepo, moved, adjustments); err != nil {
			return err
		}
		return s.invoiceRepo.SaveWithLock(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, inv, moved)
	s.logger.Info("Invoice voided",
		zap.String("business_line_id", businessLineID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("reason", inv.VoidReason))

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, businessLineID, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByID(ctx, businessLineID, id)
	if err != nil {
		return err
	}
	if !inv.IsDraft() {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft invoices can be deleted, void issued invoices instead")
	}
	return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.invoiceRepo.Delete(ctx, businessLineID, id)
	})
}

func (s *InvoiceService) addLines(ctx context.Context, inv *trade.SalesInvoice, lines []InvoiceLineInput) error {
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.StockItemID
	}
	items, err := loadStockItems(ctx, s.itemRepo, inv.BusinessLineID, ids)
	if err != nil {
		return err
	}
	for _, line := range lines {
		item := items[line.StockItemID]
		if !item.IsActive() {
			return shared.NewDomainError(codeItemInactive, "Stock item "+item.SKU+" is inactive")
		}
		price := item.SalePrice
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		if _, err := inv.AddItem(item.ID, item.SKU, item.Name, line.Quantity, price); err != nil {
			return err
		}
	}
	return nil
}

func (s *InvoiceService) publishDomainEvents(ctx context.Context, inv *trade.SalesInvoice, items []*inventory.StockItem) {
	for _, item := range items {
		if err := shared.PublishAndClear(ctx, s.eventPublisher, item); err != nil {
			s.logger.Warn("Failed to publish stock events", zap.Error(err))
		}
	}
	if err := shared.PublishAndClear(ctx, s.eventPublisher, inv); err != nil {
		s.logger.Warn("Failed to publish invoice events",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err))
	}
}

func invoiceItemIDs(inv *trade.SalesInvoice) []uuid.UUID {
	ids := make([]uuid.UUID, len(inv.Items))
	for i, line := range inv.Items {
		ids[i] = line.StockItemID
	}
	return ids
}

func toInvoiceResponses(invoices []trade.SalesInvoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out
}
