package trade

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

const codeItemInactive = "ITEM_INACTIVE"

// loadStockItems loads the referenced items keyed by ID.
// Every ID must resolve to an item of the business line.
func loadStockItems(ctx context.Context, repo inventory.StockItemRepository, businessLineID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*inventory.StockItem, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	items, err := repo.FindByIDs(ctx, businessLineID, unique)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.StockItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, id := range unique {
		if _, ok := byID[id]; !ok {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Stock item "+id.String()+" not found")
		}
	}
	return byID, nil
}

// saveMovedItems persists each moved item once and writes the ledger rows
func saveMovedItems(ctx context.Context, itemRepo inventory.StockItemRepository, adjustmentRepo inventory.StockAdjustmentRepository, items []*inventory.StockItem, adjustments []*inventory.StockAdjustment) error {
	for _, item := range items {
		if err := itemRepo.SaveWithLock(ctx, item); err != nil {
			return err
		}
	}
	if len(adjustments) == 0 {
		return nil
	}
	return adjustmentRepo.Create(ctx, adjustments...)
}

// orderedItems returns the items of byID in the order their IDs first appear
func orderedItems(byID map[uuid.UUID]*inventory.StockItem, ids []uuid.UUID) []*inventory.StockItem {
	out := make([]*inventory.StockItem, 0, len(byID))
	seen := make(map[uuid.UUID]struct{}, len(byID))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, byID[id])
	}
	return out
}
