package event

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LineInvalidator drops cached data of a business line
type LineInvalidator interface {
	InvalidateBusinessLine(ctx context.Context, businessLineID uuid.UUID) error
}

// ReportCacheInvalidator clears cached reports of the line an event belongs to.
// It subscribes to every event; events without a business line are ignored.
type ReportCacheInvalidator struct {
	cache  LineInvalidator
	logger *zap.Logger
}

func NewReportCacheInvalidator(cache LineInvalidator, logger *zap.Logger) *ReportCacheInvalidator {
	return &ReportCacheInvalidator{cache: cache, logger: logger}
}

func (h *ReportCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	lineID := event.BusinessLineID()
	if lineID == uuid.Nil || event.EventType() == finance.EventTypeChequeOverdue {
		return nil
	}
	if err := h.cache.InvalidateBusinessLine(ctx, lineID); err != nil {
		return err
	}
	h.logger.Debug("report cache invalidated",
		zap.String("business_line_id", lineID.String()),
		zap.String("event_type", event.EventType()),
	)
	return nil
}

func (h *ReportCacheInvalidator) EventTypes() []string {
	return nil
}

// AlertLogger writes warnings for events that need a person's attention
type AlertLogger struct {
	logger *zap.Logger
}

func NewAlertLogger(logger *zap.Logger) *AlertLogger {
	return &AlertLogger{logger: logger}
}

func (h *AlertLogger) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.LowStockEvent:
		h.logger.Warn("stock item at or below reorder level",
			zap.String("business_line_id", e.BusinessLineID().String()),
			zap.String("stock_item_id", e.StockItemID.String()),
			zap.String("sku", e.SKU),
			zap.String("quantity", e.Quantity.String()),
			zap.String("reorder_level", e.ReorderLevel.String()),
		)
	case *finance.ChequeOverdueEvent:
		h.logger.Warn("pending cheque overdue",
			zap.String("business_line_id", e.BusinessLineID().String()),
			zap.String("payment_id", e.PaymentID.String()),
			zap.String("payment_number", e.PaymentNumber),
			zap.String("cheque_number", e.ChequeNumber),
			zap.Time("cheque_date", e.ChequeDate),
			zap.String("amount", e.Amount.String()),
			zap.Int("days_overdue", e.DaysOverdue),
		)
	}
	return nil
}

func (h *AlertLogger) EventTypes() []string {
	return []string{inventory.EventTypeLowStock, finance.EventTypeChequeOverdue}
}
