package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/bizline/backoffice/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc       *PaymentService
	payments  *MockPaymentRepository
	invoices  *MockSalesInvoiceRepository
	customers *MockCustomerRepository
	vendors   *MockVendorRepository
	pub       *capturePublisher
}

func setupPaymentService(t *testing.T) paymentFixture {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	f := paymentFixture{
		payments:  new(MockPaymentRepository),
		invoices:  new(MockSalesInvoiceRepository),
		customers: new(MockCustomerRepository),
		vendors:   new(MockVendorRepository),
		pub:       &capturePublisher{},
	}
	f.svc = NewPaymentService(f.payments, f.invoices, f.customers, f.vendors, inlineTx{}, store, f.pub, nil)
	return f
}

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func newCustomer(t *testing.T, lineID uuid.UUID, limit int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(lineID, "C-1", "Acme")
	require.NoError(t, err)
	require.NoError(t, c.SetCreditLimit(decimal.NewFromInt(limit)))
	c.ClearDomainEvents()
	return c
}

func newVendor(t *testing.T, lineID uuid.UUID, payable int64) *partner.Vendor {
	t.Helper()
	v, err := partner.NewVendor(lineID, "V-1", "Supply Co")
	require.NoError(t, err)
	if payable > 0 {
		require.NoError(t, v.AddPayable(decimal.NewFromInt(payable)))
	}
	v.ClearDomainEvents()
	return v
}

func issuedInvoice(t *testing.T, lineID uuid.UUID, customer *partner.Customer, total int64) *trade.SalesInvoice {
	t.Helper()
	inv, err := trade.NewSalesInvoice(lineID, "INV-1", customer.ID, customer.Name)
	require.NoError(t, err)
	_, err = inv.AddItem(uuid.New(), "SKU-1", "Widget", decimal.NewFromInt(1), decimal.NewFromInt(total))
	require.NoError(t, err)
	require.NoError(t, inv.Issue())
	inv.ClearDomainEvents()
	return inv
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()
	userID := uuid.New()

	t.Run("incoming cash applied to an invoice", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 0)
		inv := issuedInvoice(t, lineID, customer, 100)

		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)
		f.payments.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

		resp, replayed, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction:  "INCOMING",
			PartyID:    customer.ID,
			InvoiceID:  &inv.ID,
			Method:     "CASH",
			Amount:     decimal.NewFromInt(40),
			RecordedBy: userID,
		})
		require.NoError(t, err)
		assert.False(t, replayed)
		assert.Equal(t, "REALIZED", resp.Status)
		assert.Equal(t, "Acme", resp.PartyName)
		assert.Equal(t, trade.InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(40)))
		require.NotEmpty(t, f.pub.events)
		assert.Equal(t, finance.EventTypePaymentRecorded, f.pub.events[0].EventType())
	})

	t.Run("incoming credit charges the customer", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 500)

		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.customers.On("SaveWithLock", ctx, customer).Return(nil)
		f.payments.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

		resp, _, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction: "INCOMING",
			PartyID:   customer.ID,
			Method:    "CREDIT",
			Amount:    decimal.NewFromInt(200),
		})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.True(t, customer.OutstandingCredit.Equal(decimal.NewFromInt(200)))
		assert.True(t, customer.AvailableCredit().Equal(decimal.NewFromInt(300)))
	})

	t.Run("credit beyond the limit is refused", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 100)
		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)

		_, _, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction: "INCOMING",
			PartyID:   customer.ID,
			Method:    "CREDIT",
			Amount:    decimal.NewFromInt(150),
		})
		assert.ErrorIs(t, err, shared.ErrCreditLimitExceeded)
		f.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("pending cheque does not touch credit", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 0)
		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.payments.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

		resp, _, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction:    "INCOMING",
			PartyID:      customer.ID,
			Method:       "CHEQUE",
			ChequeNumber: "000123",
			BankName:     "First Bank",
			Amount:       decimal.NewFromInt(900),
		})
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "000123", resp.ChequeNumber)
		assert.True(t, customer.OutstandingCredit.IsZero())
		f.customers.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("outgoing reduces the vendor payable", func(t *testing.T) {
		f := setupPaymentService(t)
		vendor := newVendor(t, lineID, 300)
		f.vendors.On("FindByID", ctx, lineID, vendor.ID).Return(vendor, nil)
		f.vendors.On("SaveWithLock", ctx, vendor).Return(nil)
		f.payments.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

		resp, _, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction: "OUTGOING",
			PartyID:   vendor.ID,
			Method:    "BANK_TRANSFER",
			Amount:    decimal.NewFromInt(120),
		})
		require.NoError(t, err)
		assert.Equal(t, "Supply Co", resp.PartyName)
		assert.True(t, vendor.PayableBalance.Equal(decimal.NewFromInt(180)))
	})

	t.Run("outgoing credit is refused", func(t *testing.T) {
		f := setupPaymentService(t)
		vendor := newVendor(t, lineID, 300)
		f.vendors.On("FindByID", ctx, lineID, vendor.ID).Return(vendor, nil)

		_, _, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction: "OUTGOING",
			PartyID:   vendor.ID,
			Method:    "CREDIT",
			Amount:    decimal.NewFromInt(10),
		})
		assert.Equal(t, "INVALID_PAYMENT_METHOD", errorCode(err))
	})

	t.Run("invoice of another customer", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 0)
		other, err := partner.NewCustomer(lineID, "C-2", "Other")
		require.NoError(t, err)
		inv := issuedInvoice(t, lineID, other, 100)

		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)

		_, _, err = f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction: "INCOMING",
			PartyID:   customer.ID,
			InvoiceID: &inv.ID,
			Method:    "CASH",
			Amount:    decimal.NewFromInt(10),
		})
		assert.Equal(t, "INVALID_INVOICE", errorCode(err))
	})

	t.Run("overpaying an invoice", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 0)
		inv := issuedInvoice(t, lineID, customer, 100)

		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)

		_, _, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction: "INCOMING",
			PartyID:   customer.ID,
			InvoiceID: &inv.ID,
			Method:    "CASH",
			Amount:    decimal.NewFromInt(101),
		})
		assert.Equal(t, "OVERPAYMENT", errorCode(err))
	})

	t.Run("inactive customer", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 0)
		require.NoError(t, customer.Deactivate())
		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)

		_, _, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction: "INCOMING",
			PartyID:   customer.ID,
			Method:    "CASH",
			Amount:    decimal.NewFromInt(10),
		})
		assert.Equal(t, "CUSTOMER_INACTIVE", errorCode(err))
		f.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("inactive vendor", func(t *testing.T) {
		f := setupPaymentService(t)
		vendor := newVendor(t, lineID, 300)
		require.NoError(t, vendor.Deactivate())
		f.vendors.On("FindByID", ctx, lineID, vendor.ID).Return(vendor, nil)

		_, _, err := f.svc.Create(ctx, lineID, CreatePaymentRequest{
			Direction: "OUTGOING",
			PartyID:   vendor.ID,
			Method:    "BANK_TRANSFER",
			Amount:    decimal.NewFromInt(10),
		})
		assert.Equal(t, "VENDOR_INACTIVE", errorCode(err))
		assert.True(t, vendor.PayableBalance.Equal(decimal.NewFromInt(300)))
		f.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Create_Idempotency(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()

	f := setupPaymentService(t)
	customer := newCustomer(t, lineID, 0)
	var saved *finance.Payment
	f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
	f.payments.On("Save", ctx, mock.AnythingOfType("*finance.Payment")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*finance.Payment) }).
		Return(nil).Once()

	req := CreatePaymentRequest{
		Direction:      "INCOMING",
		PartyID:        customer.ID,
		Method:         "CASH",
		Amount:         decimal.NewFromInt(25),
		IdempotencyKey: "abc-123",
	}
	first, replayed, err := f.svc.Create(ctx, lineID, req)
	require.NoError(t, err)
	require.False(t, replayed)
	require.NotNil(t, saved)

	f.payments.On("FindByID", ctx, lineID, first.ID).Return(saved, nil)
	second, replayed, err := f.svc.Create(ctx, lineID, req)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)
	f.payments.AssertNumberOfCalls(t, "Save", 1)
}

func TestPaymentService_Create_IdempotencyReleasedOnFailure(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()

	f := setupPaymentService(t)
	customer := newCustomer(t, lineID, 0)
	f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
	f.payments.On("Save", ctx, mock.Anything).Return(errors.New("db down")).Once()
	f.payments.On("Save", ctx, mock.Anything).Return(nil).Once()

	req := CreatePaymentRequest{
		Direction:      "INCOMING",
		PartyID:        customer.ID,
		Method:         "CASH",
		Amount:         decimal.NewFromInt(25),
		IdempotencyKey: "retry-me",
	}
	_, _, err := f.svc.Create(ctx, lineID, req)
	require.Error(t, err)

	resp, replayed, err := f.svc.Create(ctx, lineID, req)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "REALIZED", resp.Status)
}

func TestPaymentService_Transitions(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()
	userID := uuid.New()

	t.Run("bounced cheque reverses the invoice", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 0)
		inv := issuedInvoice(t, lineID, customer, 100)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(100)))
		payment, err := finance.NewPayment(lineID, finance.NewPaymentInput{
			Direction: finance.DirectionIncoming,
			PartyID:   customer.ID,
			InvoiceID: &inv.ID,
			Method:    finance.PaymentMethodCheque,
			Amount:    decimal.NewFromInt(100),
			Cheque:    finance.ChequeDetails{Number: "77"},
		})
		require.NoError(t, err)
		payment.ClearDomainEvents()

		f.payments.On("FindByID", ctx, lineID, payment.ID).Return(payment, nil)
		f.invoices.On("FindByID", ctx, lineID, inv.ID).Return(inv, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)
		f.payments.On("SaveWithLock", ctx, payment).Return(nil)

		resp, err := f.svc.Bounce(ctx, lineID, payment.ID, TransitionRequest{Note: "insufficient funds"}, userID)
		require.NoError(t, err)
		assert.Equal(t, "BOUNCED", resp.Status)
		assert.NotNil(t, resp.BouncedAt)
		assert.Equal(t, trade.InvoiceStatusIssued, inv.Status)
		assert.True(t, inv.PaidAmount.IsZero())
		require.Len(t, resp.History, 2)
		assert.Equal(t, "insufficient funds", resp.History[1].Note)
	})

	t.Run("cancelled outgoing cheque restores the payable", func(t *testing.T) {
		f := setupPaymentService(t)
		vendor := newVendor(t, lineID, 50)
		payment, err := finance.NewPayment(lineID, finance.NewPaymentInput{
			Direction: finance.DirectionOutgoing,
			PartyID:   vendor.ID,
			Method:    finance.PaymentMethodCheque,
			Amount:    decimal.NewFromInt(70),
			Cheque:    finance.ChequeDetails{Number: "12"},
		})
		require.NoError(t, err)

		f.payments.On("FindByID", ctx, lineID, payment.ID).Return(payment, nil)
		f.vendors.On("FindByID", ctx, lineID, vendor.ID).Return(vendor, nil)
		f.vendors.On("SaveWithLock", ctx, vendor).Return(nil)
		f.payments.On("SaveWithLock", ctx, payment).Return(nil)

		_, err = f.svc.Cancel(ctx, lineID, payment.ID, TransitionRequest{}, userID)
		require.NoError(t, err)
		assert.True(t, vendor.PayableBalance.Equal(decimal.NewFromInt(120)))
	})

	t.Run("settled credit releases the customer's credit", func(t *testing.T) {
		f := setupPaymentService(t)
		customer := newCustomer(t, lineID, 500)
		require.NoError(t, customer.ChargeCredit(decimal.NewFromInt(200)))
		payment, err := finance.NewPayment(lineID, finance.NewPaymentInput{
			Direction: finance.DirectionIncoming,
			PartyID:   customer.ID,
			Method:    finance.PaymentMethodCredit,
			Amount:    decimal.NewFromInt(200),
		})
		require.NoError(t, err)

		f.payments.On("FindByID", ctx, lineID, payment.ID).Return(payment, nil)
		f.customers.On("FindByID", ctx, lineID, customer.ID).Return(customer, nil)
		f.customers.On("SaveWithLock", ctx, customer).Return(nil)
		f.payments.On("SaveWithLock", ctx, payment).Return(nil)

		resp, err := f.svc.Settle(ctx, lineID, payment.ID, TransitionRequest{}, userID)
		require.NoError(t, err)
		assert.Equal(t, "SETTLED", resp.Status)
		assert.True(t, customer.OutstandingCredit.IsZero())
	})

	t.Run("realized cheque changes no balance", func(t *testing.T) {
		f := setupPaymentService(t)
		payment, err := finance.NewPayment(lineID, finance.NewPaymentInput{
			Direction: finance.DirectionIncoming,
			PartyID:   uuid.New(),
			Method:    finance.PaymentMethodCheque,
			Amount:    decimal.NewFromInt(10),
			Cheque:    finance.ChequeDetails{Number: "1"},
		})
		require.NoError(t, err)
		f.payments.On("FindByID", ctx, lineID, payment.ID).Return(payment, nil)
		f.payments.On("SaveWithLock", ctx, payment).Return(nil)

		resp, err := f.svc.Realize(ctx, lineID, payment.ID, TransitionRequest{}, userID)
		require.NoError(t, err)
		assert.Equal(t, "REALIZED", resp.Status)
		f.customers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cash cannot bounce", func(t *testing.T) {
		f := setupPaymentService(t)
		payment, err := finance.NewPayment(lineID, finance.NewPaymentInput{
			Direction: finance.DirectionIncoming,
			PartyID:   uuid.New(),
			Method:    finance.PaymentMethodCash,
			Amount:    decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		f.payments.On("FindByID", ctx, lineID, payment.ID).Return(payment, nil)

		_, err = f.svc.Bounce(ctx, lineID, payment.ID, TransitionRequest{}, userID)
		assert.Equal(t, "INVALID_TRANSITION", errorCode(err))
		f.payments.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_StatusChanges(t *testing.T) {
	ctx := context.Background()
	lineID, partyID := uuid.New(), uuid.New()
	f := setupPaymentService(t)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	bounced := base.Add(48 * time.Hour)
	cheque := finance.Payment{
		PaymentNumber: "PAY-2",
		Method:        finance.PaymentMethodCheque,
		Amount:        decimal.NewFromInt(50),
		Status:        finance.PaymentStatusBounced,
		PaidAt:        base,
		BouncedAt:     &bounced,
	}
	cheque.ID = uuid.New()
	cheque.CreatedAt = base
	cash := finance.Payment{
		PaymentNumber: "PAY-1",
		Method:        finance.PaymentMethodCash,
		Amount:        decimal.NewFromInt(20),
		Status:        finance.PaymentStatusRealized,
		PaidAt:        base,
	}
	cash.ID = uuid.New()
	cash.CreatedAt = base

	f.payments.On("FindForTimeline", ctx, lineID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["party_id"] == partyID && filter.Filters["method"] == "CHEQUE"
	})).Return([]finance.Payment{cheque, cash}, nil)

	changes, err := f.svc.StatusChanges(ctx, lineID, StatusChangeFilter{PartyID: partyID.String(), Method: "CHEQUE"})
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.Equal(t, "PAY-1", changes[0].PaymentNumber)
	assert.Equal(t, "PAY-2", changes[1].PaymentNumber)
	assert.Equal(t, "PENDING", changes[1].To)
	assert.Equal(t, "BOUNCED", changes[2].To)
	assert.True(t, changes[2].ChangedAt.Equal(bounced))
}

func TestPaymentService_StatusChanges_FiltersByChangeTime(t *testing.T) {
	ctx := context.Background()
	lineID := uuid.New()
	f := setupPaymentService(t)

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	bounced := time.Date(2024, 3, 3, 15, 30, 0, 0, time.UTC)
	cheque := finance.Payment{
		PaymentNumber: "PAY-7",
		Method:        finance.PaymentMethodCheque,
		Amount:        decimal.NewFromInt(50),
		Status:        finance.PaymentStatusBounced,
		PaidAt:        created,
		BouncedAt:     &bounced,
	}
	cheque.ID = uuid.New()
	cheque.CreatedAt = created

	from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	f.payments.On("FindForTimeline", ctx, lineID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.From.Equal(from) && filter.To.After(bounced)
	})).Return([]finance.Payment{cheque}, nil)

	changes, err := f.svc.StatusChanges(ctx, lineID, StatusChangeFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, changes, 1, "the creation on March 1 is outside the range")
	assert.Equal(t, "BOUNCED", changes[0].To)
	assert.True(t, changes[0].ChangedAt.Equal(bounced))
}

func TestPaymentService_List_InvalidParty(t *testing.T) {
	f := setupPaymentService(t)
	_, _, err := f.svc.List(context.Background(), uuid.New(), PaymentListFilter{PartyID: "not-a-uuid"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
