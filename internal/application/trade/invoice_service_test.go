package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/bizline/backoffice/internal/domain/inventory"
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	svc         *InvoiceService
	invoices    *MockSalesInvoiceRepository
	customers   *MockCustomerRepository
	items       *MockStockItemRepository
	adjustments *MockStockAdjustmentRepository
	pub         *capturePublisher
}

func setupInvoiceService() invoiceFixture {
	f := invoiceFixture{
		invoices:    new(MockSalesInvoiceRepository),
		customers:   new(MockCustomerRepository),
		items:       new(MockStockItemRepository),
		adjustments: new(MockStockAdjustmentRepository),
		pub:         &capturePublisher{},
	}
	f.svc = NewInvoiceService(f.invoices, f.customers, f.items, f.adjustments, inlineTx{}, f.pub, nil)
	return f
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func draftInvoice(t *testing.T, lineID uuid.UUID, customer *partner.Customer, lines ...*inventory.StockItem) *trade.SalesInvoice {
	t.Helper()
	inv, err := trade.NewSalesInvoice(lineID, "INV-100", customer.ID, customer.Name)
	require.NoError(t, err)
	for _, item := range lines {
		_, err := inv.AddItem(item.ID, item.SKU, item.Name, decimal.NewFromInt(2), item.SalePrice)
		require.NoError(t, err)
	}
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()

	t.Run("prices lines from the item and applies the discount", func(t *testing.T) {
		f := setupInvoiceService()
		customer, err := partner.NewCustomer(lineID, "C-1", "Acme")
		require.NoError(t, err)
		item := stockedItem(t, lineID, "SKU-1", 10, 4, 15)

		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.items.On("FindByIDs", ctx, lineID, mock.Anything).Return([]inventory.StockItem{*item}, nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*trade.SalesInvoice")).Return(nil)

		discount := decimal.NewFromInt(5)
		resp, err := f.svc.Create(ctx, lineID, CreateInvoiceRequest{
			CustomerID: customer.ID,
			Items:      []InvoiceLineInput{{StockItemID: item.ID, Quantity: decimal.NewFromInt(3)}},
			Discount:   &discount,
			Notes:      "counter sale",
		})
		require.NoError(t, err)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "Acme", resp.CustomerName)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(45)))
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(40)))
		assert.Contains(t, resp.InvoiceNumber, "INV-")
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(15)))
		f.invoices.AssertNotCalled(t, "ExistsByNumber", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an inactive customer", func(t *testing.T) {
		f := setupInvoiceService()
		customer, err := partner.NewCustomer(lineID, "C-2", "Dormant")
		require.NoError(t, err)
		require.NoError(t, customer.Deactivate())
		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)

		_, err = f.svc.Create(ctx, lineID, CreateInvoiceRequest{
			CustomerID: customer.ID,
			Items:      []InvoiceLineInput{{StockItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		assert.Equal(t, "CUSTOMER_INACTIVE", errorCode(err))
	})

	t.Run("rejects a duplicate invoice number", func(t *testing.T) {
		f := setupInvoiceService()
		customer, err := partner.NewCustomer(lineID, "C-3", "Acme")
		require.NoError(t, err)
		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.invoices.On("ExistsByNumber", ctx, lineID, "INV-7").Return(true, nil)

		_, err = f.svc.Create(ctx, lineID, CreateInvoiceRequest{
			InvoiceNumber: "INV-7",
			CustomerID:    customer.ID,
			Items:         []InvoiceLineInput{{StockItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown stock item", func(t *testing.T) {
		f := setupInvoiceService()
		customer, err := partner.NewCustomer(lineID, "C-4", "Acme")
		require.NoError(t, err)
		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.items.On("FindByIDs", ctx, lineID, mock.Anything).Return([]inventory.StockItem{}, nil)

		_, err = f.svc.Create(ctx, lineID, CreateInvoiceRequest{
			CustomerID: customer.ID,
			Items:      []InvoiceLineInput{{StockItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceService_Update_ReplacesItems(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()
	f := setupInvoiceService()

	customer, err := partner.NewCustomer(lineID, "C-1", "Acme")
	require.NoError(t, err)
	first := stockedItem(t, lineID, "SKU-1", 10, 4, 50)
	second := stockedItem(t, lineID, "SKU-2", 10, 1, 3)
	inv := draftInvoice(t, lineID, customer, first)
	require.NoError(t, inv.SetDiscount(decimal.NewFromInt(20)))

	f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)
	f.items.On("FindByIDs", ctx, lineID, mock.Anything).Return([]inventory.StockItem{*second}, nil)
	f.invoices.On("SaveWithLock", ctx, inv).Return(nil)

	resp, err := f.svc.Update(ctx, lineID, inv.ID, UpdateInvoiceRequest{
		Items: []InvoiceLineInput{{StockItemID: second.ID, Quantity: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "SKU-2", resp.Items[0].SKU)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(12)))
	assert.True(t, resp.Discount.Equal(decimal.NewFromInt(12)), "discount is capped at the new subtotal")
	assert.True(t, resp.Total.IsZero())
}

func TestInvoiceService_Issue(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()
	userID := uuid.New()
	customer, err := partner.NewCustomer(lineID, "C-1", "Acme")
	require.NoError(t, err)

	t.Run("deducts stock with sale adjustments", func(t *testing.T) {
		f := setupInvoiceService()
		a := stockedItem(t, lineID, "SKU-A", 10, 4, 6)
		b := stockedItem(t, lineID, "SKU-B", 5, 2, 3)
		inv := draftInvoice(t, lineID, customer, a, b)

		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)
		f.items.On("FindByIDs", ctx, lineID, mock.Anything).Return([]inventory.StockItem{*a, *b}, nil)
		f.items.On("SaveWithLock", ctx, mock.MatchedBy(func(item *inventory.StockItem) bool {
			return (item.ID == a.ID && item.Quantity.Equal(decimal.NewFromInt(8))) ||
				(item.ID == b.ID && item.Quantity.Equal(decimal.NewFromInt(3)))
		})).Return(nil).Twice()
		f.adjustments.On("Create", ctx, mock.MatchedBy(func(adjs []*inventory.StockAdjustment) bool {
			if len(adjs) != 2 {
				return false
			}
			for _, adj := range adjs {
				if adj.Type != inventory.AdjustmentTypeSale || adj.Reference != "INV-100" || adj.CreatedBy == nil || *adj.CreatedBy != userID {
					return false
				}
			}
			return true
		})).Return(nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)

		resp, err := f.svc.Issue(ctx, lineID, inv.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, "ISSUED", resp.Status)
		assert.NotNil(t, resp.IssuedAt)
		assert.Contains(t, f.pub.types(), trade.EventTypeInvoiceIssued)
		f.items.AssertExpectations(t)
		f.adjustments.AssertExpectations(t)
	})

	t.Run("insufficient stock leaves the invoice in draft", func(t *testing.T) {
		f := setupInvoiceService()
		a := stockedItem(t, lineID, "SKU-A", 1, 4, 6)
		inv := draftInvoice(t, lineID, customer, a)

		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)
		f.items.On("FindByIDs", ctx, lineID, mock.Anything).Return([]inventory.StockItem{*a}, nil)

		_, err := f.svc.Issue(ctx, lineID, inv.ID, userID)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, trade.InvoiceStatusDraft, inv.Status)
		f.invoices.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		f.adjustments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.pub.events)
	})

	t.Run("already issued", func(t *testing.T) {
		f := setupInvoiceService()
		a := stockedItem(t, lineID, "SKU-A", 10, 4, 6)
		inv := draftInvoice(t, lineID, customer, a)
		require.NoError(t, inv.Issue())
		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)

		_, err := f.svc.Issue(ctx, lineID, inv.ID, userID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestInvoiceService_Void(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()
	userID := uuid.New()
	customer, err := partner.NewCustomer(lineID, "C-1", "Acme")
	require.NoError(t, err)

	t.Run("returns stock with sale reversals", func(t *testing.T) {
		f := setupInvoiceService()
		a := stockedItem(t, lineID, "SKU-A", 8, 4, 6)
		inv := draftInvoice(t, lineID, customer, a)
		require.NoError(t, inv.Issue())
		inv.ClearDomainEvents()

		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)
		f.items.On("FindByIDs", ctx, lineID, mock.Anything).Return([]inventory.StockItem{*a}, nil)
		f.items.On("SaveWithLock", ctx, mock.MatchedBy(func(item *inventory.StockItem) bool {
			return item.Quantity.Equal(decimal.NewFromInt(10))
		})).Return(nil)
		f.adjustments.On("Create", ctx, mock.MatchedBy(func(adjs []*inventory.StockAdjustment) bool {
			return len(adjs) == 1 && adjs[0].Type == inventory.AdjustmentTypeSaleReversal
		})).Return(nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)

		resp, err := f.svc.Void(ctx, lineID, inv.ID, VoidInvoiceRequest{Reason: "customer cancelled"}, userID)
		require.NoError(t, err)
		assert.Equal(t, "VOID", resp.Status)
		assert.Equal(t, "customer cancelled", resp.VoidReason)
		assert.Contains(t, f.pub.types(), trade.EventTypeInvoiceVoided)
	})

	t.Run("refuses when payments are applied", func(t *testing.T) {
		f := setupInvoiceService()
		a := stockedItem(t, lineID, "SKU-A", 8, 4, 6)
		inv := draftInvoice(t, lineID, customer, a)
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(5)))
		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)

		_, err := f.svc.Void(ctx, lineID, inv.ID, VoidInvoiceRequest{Reason: "x"}, userID)
		assert.Equal(t, "INVOICE_HAS_PAYMENTS", errorCode(err))
		f.items.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()
	customer, err := partner.NewCustomer(lineID, "C-1", "Acme")
	require.NoError(t, err)
	item := stockedItem(t, lineID, "SKU-A", 8, 4, 6)

	t.Run("draft", func(t *testing.T) {
		f := setupInvoiceService()
		inv := draftInvoice(t, lineID, customer, item)
		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)
		f.invoices.On("Delete", ctx, lineID, inv.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, lineID, inv.ID))
		f.invoices.AssertExpectations(t)
	})

	t.Run("issued", func(t *testing.T) {
		f := setupInvoiceService()
		inv := draftInvoice(t, lineID, customer, item)
		require.NoError(t, inv.Issue())
		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)

		err := f.svc.Delete(ctx, lineID, inv.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.invoices.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInvoiceService_List(t *testing.T) {
	ctx := context.Background()
	lineID, customerID := uuid.New(), uuid.New()
	f := setupInvoiceService()

	matcher := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["customer_id"] == customerID && filter.Filters["status"] == "ISSUED" && filter.PageSize == shared.DefaultPageSize
	})
	f.invoices.On("FindAll", ctx, lineID, matcher).Return([]trade.SalesInvoice{}, nil)
	f.invoices.On("Count", ctx, lineID, matcher).Return(int64(0), nil)

	_, total, err := f.svc.List(ctx, lineID, InvoiceListFilter{CustomerID: customerID.String(), Status: "ISSUED"})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = f.svc.List(ctx, lineID, InvoiceListFilter{CustomerID: "nope"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
