package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newDraftInvoice(t *testing.T) *SalesInvoice {
	t.Helper()
	inv, err := NewSalesInvoice(uuid.New(), "", uuid.New(), "Acme")
	require.NoError(t, err)
	return inv
}

func newIssuedInvoice(t *testing.T, total string) *SalesInvoice {
	t.Helper()
	inv := newDraftInvoice(t)
	_, err := inv.AddItem(uuid.New(), "SKU-1", "Widget", dec("1"), dec(total))
	require.NoError(t, err)
	require.NoError(t, inv.Issue())
	return inv
}

func TestNewSalesInvoice(t *testing.T) {
	inv := newDraftInvoice(t)
	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{6}$`, inv.InvoiceNumber)
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.True(t, inv.IsDraft())

	_, err := NewSalesInvoice(uuid.New(), "INV-1", uuid.Nil, "")
	assert.Error(t, err)
}

func TestSalesInvoice_Totals(t *testing.T) {
	inv := newDraftInvoice(t)
	_, err := inv.AddItem(uuid.New(), "A", "Item A", dec("2"), dec("10.50"))
	require.NoError(t, err)
	_, err = inv.AddItem(uuid.New(), "B", "Item B", dec("3"), dec("5"))
	require.NoError(t, err)

	assert.True(t, inv.Subtotal.Equal(dec("36")))
	require.NoError(t, inv.SetDiscount(dec("6")))
	assert.True(t, inv.Total.Equal(dec("30")))

	t.Run("discount above subtotal rejected", func(t *testing.T) {
		assert.Error(t, inv.SetDiscount(dec("37")))
	})

	t.Run("duplicate stock item rejected", func(t *testing.T) {
		itemID := inv.Items[0].StockItemID
		_, err := inv.AddItem(itemID, "A", "Item A", dec("1"), dec("1"))
		assert.Error(t, err)
	})

	t.Run("clearing items clamps discount", func(t *testing.T) {
		require.NoError(t, inv.ClearItems())
		assert.True(t, inv.Total.IsZero())
		assert.True(t, inv.Discount.IsZero())
	})
}

func TestSalesInvoice_Issue(t *testing.T) {
	t.Run("empty invoice cannot be issued", func(t *testing.T) {
		inv := newDraftInvoice(t)
		assert.Error(t, inv.Issue())
	})

	t.Run("issue locks editing", func(t *testing.T) {
		inv := newIssuedInvoice(t, "100")
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		assert.NotNil(t, inv.IssuedAt)
		_, err := inv.AddItem(uuid.New(), "X", "X", dec("1"), dec("1"))
		assert.Error(t, err)
		assert.Error(t, inv.Issue())
		require.Len(t, inv.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInvoiceIssued, inv.GetDomainEvents()[0].EventType())
	})

	t.Run("zero total is paid on issue", func(t *testing.T) {
		inv := newIssuedInvoice(t, "0")
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})
}

func TestSalesInvoice_Payments(t *testing.T) {
	inv := newIssuedInvoice(t, "100")

	t.Run("partial payment", func(t *testing.T) {
		require.NoError(t, inv.ApplyPayment(dec("40")))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, inv.Outstanding().Equal(dec("60")))
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		assert.Error(t, inv.ApplyPayment(dec("60.01")))
	})

	t.Run("full payment", func(t *testing.T) {
		require.NoError(t, inv.ApplyPayment(dec("60")))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.Error(t, inv.ApplyPayment(dec("1")))
	})

	t.Run("reversal reopens invoice", func(t *testing.T) {
		require.NoError(t, inv.ReversePayment(dec("60")))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		require.NoError(t, inv.ReversePayment(dec("40")))
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		assert.Error(t, inv.ReversePayment(dec("1")))
	})

	t.Run("draft rejects payments", func(t *testing.T) {
		assert.Error(t, newDraftInvoice(t).ApplyPayment(dec("1")))
	})
}

func TestSalesInvoice_Void(t *testing.T) {
	t.Run("void issued invoice", func(t *testing.T) {
		inv := newIssuedInvoice(t, "50")
		assert.Error(t, inv.Void(""))
		require.NoError(t, inv.Void("customer cancelled"))
		assert.Equal(t, InvoiceStatusVoid, inv.Status)
		assert.NotNil(t, inv.VoidedAt)
		assert.Error(t, inv.Void("again"))
	})

	t.Run("paid amount blocks void", func(t *testing.T) {
		inv := newIssuedInvoice(t, "50")
		require.NoError(t, inv.ApplyPayment(dec("10")))
		assert.Error(t, inv.Void("nope"))
	})

	t.Run("draft cannot be voided", func(t *testing.T) {
		assert.Error(t, newDraftInvoice(t).Void("x"))
	})
}

func TestSalesInvoice_IsOverdue(t *testing.T) {
	inv := newIssuedInvoice(t, "10")
	past := time.Now().Add(-48 * time.Hour)
	inv.SetDueDate(&past)
	assert.True(t, inv.IsOverdue(time.Now()))

	require.NoError(t, inv.ApplyPayment(dec("10")))
	assert.False(t, inv.IsOverdue(time.Now()))
}

func TestPurchaseIntake(t *testing.T) {
	intake, err := NewPurchaseIntake(uuid.New(), "", uuid.New(), "Steel Supply")
	require.NoError(t, err)
	assert.Regexp(t, `^GRN-\d{8}-[0-9A-F]{6}$`, intake.IntakeNumber)

	assert.Error(t, intake.Receive())

	require.NoError(t, intake.AddItem(uuid.New(), "A", "Item A", dec("10"), dec("2.5")))
	require.NoError(t, intake.AddItem(uuid.New(), "B", "Item B", dec("4"), dec("1")))
	assert.True(t, intake.Total.Equal(dec("29")))

	require.NoError(t, intake.Receive())
	assert.Equal(t, IntakeStatusReceived, intake.Status)
	assert.NotNil(t, intake.ReceivedAt)
	assert.Error(t, intake.Cancel())
	assert.Error(t, intake.AddItem(uuid.New(), "C", "C", dec("1"), dec("1")))

	_, err = NewPurchaseIntake(uuid.New(), "", uuid.Nil, "")
	assert.Error(t, err)
}
