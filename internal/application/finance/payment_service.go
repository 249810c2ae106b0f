package finance

import (
	"context"
	"time"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/domain/trade"
	"github.com/bizline/backoffice/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	idempotencyTTL    = 24 * time.Hour
	idempotencyPrefix = "payment:create:"

	// CodeRequestInProgress is returned while a request with the same Idempotency-Key runs
	CodeRequestInProgress = "REQUEST_IN_PROGRESS"
)

// PaymentService records payments and drives the cheque and credit lifecycle.
// Every balance a payment touches (invoice paid amount, customer credit,
// vendor payable) changes in the same transaction as the payment itself.
type PaymentService struct {
	paymentRepo    finance.PaymentRepository
	invoiceRepo    trade.SalesInvoiceRepository
	customerRepo   partner.CustomerRepository
	vendorRepo     partner.VendorRepository
	txManager      shared.TxManager
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService.
// A nil idempotency store disables Idempotency-Key handling.
func NewPaymentService(
	paymentRepo finance.PaymentRepository,
	invoiceRepo trade.SalesInvoiceRepository,
	customerRepo partner.CustomerRepository,
	vendorRepo partner.VendorRepository,
	txManager shared.TxManager,
	idempotency shared.IdempotencyStore,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		paymentRepo:    paymentRepo,
		invoiceRepo:    invoiceRepo,
		customerRepo:   customerRepo,
		vendorRepo:     vendorRepo,
		txManager:      txManager,
		idempotency:    idempotency,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// touched collects the aggregates changed by one payment operation
type touched struct {
	payment  *finance.Payment
	invoice  *trade.SalesInvoice
	customer *partner.Customer
	vendor   *partner.Vendor
}

// Create records a payment. A repeated Idempotency-Key returns the payment
// recorded by the first request and reports replayed=true.
func (s *PaymentService) Create(ctx context.Context, businessLineID uuid.UUID, req CreatePaymentRequest) (resp *PaymentResponse, replayed bool, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "create",
		telemetry.AttrBusinessLineID, businessLineID,
		"payment.method", req.Method,
	)
	defer func() { telemetry.End(span, err) }()

	if req.IdempotencyKey == "" || s.idempotency == nil {
		resp, err = s.create(ctx, businessLineID, req)
		return resp, false, err
	}

	key := idempotencyPrefix + businessLineID.String() + ":" + req.IdempotencyKey
	reserved, err := s.idempotency.Reserve(ctx, key, idempotencyTTL)
	if err != nil {
		return nil, false, err
	}
	if !reserved {
		resp, err = s.replay(ctx, businessLineID, key)
		return resp, err == nil, err
	}

	resp, err = s.create(ctx, businessLineID, req)
	if err != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
		}
		return nil, false, err
	}
	if completeErr := s.idempotency.Complete(ctx, key, resp.ID.String(), idempotencyTTL); completeErr != nil {
		s.logger.Warn("Failed to complete idempotency key", zap.String("key", key), zap.Error(completeErr))
	}
	return resp, false, nil
}

func (s *PaymentService) replay(ctx context.Context, businessLineID uuid.UUID, key string) (*PaymentResponse, error) {
	result, done, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found || !done {
		return nil, shared.NewDomainError(CodeRequestInProgress, "A request with this Idempotency-Key is still being processed")
	}
	paymentID, err := uuid.Parse(result)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause(shared.ErrInvalidState.Code, "Stored idempotency result is not a payment ID", err)
	}
	return s.GetByID(ctx, businessLineID, paymentID)
}

func (s *PaymentService) create(ctx context.Context, businessLineID uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	var t touched

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if req.PaymentNumber != "" {
			exists, err := s.paymentRepo.ExistsByNumber(ctx, businessLineID, req.PaymentNumber)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Payment "+req.PaymentNumber+" already exists")
			}
		}

		direction := finance.Direction(req.Direction)
		method := finance.PaymentMethod(req.Method)
		var partyName string
		switch direction {
		case finance.DirectionIncoming:
			customer, err := s.customerRepo.FindByID(ctx, businessLineID, req.PartyID)
			if err != nil {
				return err
			}
			if !customer.IsActive() {
				return shared.NewDomainError("CUSTOMER_INACTIVE", "Customer "+customer.Code+" is inactive")
			}
			t.customer, partyName = customer, customer.Name
		case finance.DirectionOutgoing:
			vendor, err := s.vendorRepo.FindByID(ctx, businessLineID, req.PartyID)
			if err != nil {
				return err
			}
			if !vendor.IsActive() {
				return shared.NewDomainError("VENDOR_INACTIVE", "Vendor "+vendor.Code+" is inactive")
			}
			t.vendor, partyName = vendor, vendor.Name
		}

		payment, err := finance.NewPayment(businessLineID, finance.NewPaymentInput{
			PaymentNumber: req.PaymentNumber,
			Direction:     direction,
			PartyID:       req.PartyID,
			PartyName:     partyName,
			InvoiceID:     req.InvoiceID,
			Method:        method,
			Amount:        req.Amount,
			Cheque: finance.ChequeDetails{
				Number: req.ChequeNumber,
				Bank:   req.BankName,
				Date:   req.ChequeDate,
			},
			DueDate:    req.DueDate,
			PaidAt:     req.PaidAt,
			Notes:      req.Notes,
			RecordedBy: req.RecordedBy,
		})
		if err != nil {
			return err
		}
		t.payment = payment

		if payment.InvoiceID != nil {
			invoice, err := s.invoiceRepo.FindByID(ctx, businessLineID, *payment.InvoiceID)
			if err != nil {
				return err
			}
			if invoice.CustomerID != payment.PartyID {
				return shared.NewDomainError("INVALID_INVOICE", "Invoice "+invoice.InvoiceNumber+" belongs to another customer")
			}
			if err := invoice.ApplyPayment(payment.Amount); err != nil {
				return err
			}
			if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
				return err
			}
			t.invoice = invoice
		}

		switch {
		case payment.IsIncoming() && payment.Method == finance.PaymentMethodCredit:
			if err := t.customer.ChargeCredit(payment.Amount); err != nil {
				return err
			}
			if err := s.customerRepo.SaveWithLock(ctx, t.customer); err != nil {
				return err
			}
		case !payment.IsIncoming():
			if err := t.vendor.ReducePayable(payment.Amount); err != nil {
				return err
			}
			if err := s.vendorRepo.SaveWithLock(ctx, t.vendor); err != nil {
				return err
			}
		}

		return s.paymentRepo.Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.publishAll(ctx, t)
	s.logger.Info("Payment recorded",
		zap.String("business_line_id", businessLineID.String()),
		zap.String("payment_number", t.payment.PaymentNumber),
		zap.String("direction", string(t.payment.Direction)),
		zap.String("method", t.payment.Method.String()),
		zap.String("status", t.payment.Status.String()),
		zap.String("amount", t.payment.Amount.StringFixed(2)))

	response := ToPaymentResponse(t.payment)
	return &response, nil
}

// GetByID retrieves a payment with its recorded history
func (s *PaymentService) GetByID(ctx context.Context, businessLineID, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, businessLineID, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, businessLineID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
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
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "paid_at"
		domainFilter.OrderDir = "desc"
	}
	if err := setEnumFilters(domainFilter.Filters, filter.Direction, filter.Method, filter.Status); err != nil {
		return nil, 0, err
	}
	if err := setIDFilter(domainFilter.Filters, "party_id", filter.PartyID); err != nil {
		return nil, 0, err
	}
	if err := setIDFilter(domainFilter.Filters, "invoice_id", filter.InvoiceID); err != nil {
		return nil, 0, err
	}
	domainFilter = domainFilter.Normalize()

	payments, err := s.paymentRepo.FindAll(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.Count(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toPaymentResponses(payments), total, nil
}

// History returns the recorded lifecycle of one payment
func (s *PaymentService) History(ctx context.Context, businessLineID, id uuid.UUID) ([]StatusChangeResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, businessLineID, id)
	if err != nil {
		return nil, err
	}
	return ToStatusChangeResponses(finance.ReconstructStatusChanges([]finance.Payment{*payment})), nil
}

// PendingCheques lists cheques not yet realized or bounced
func (s *PaymentService) PendingCheques(ctx context.Context, businessLineID uuid.UUID, filter PendingChequeFilter) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindPendingCheques(ctx, businessLineID, filter.DueBefore)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

// StatusChanges returns the lifecycle of every matching payment flattened into one timeline.
// The date range applies to when each change happened.
func (s *PaymentService) StatusChanges(ctx context.Context, businessLineID uuid.UUID, filter StatusChangeFilter) ([]StatusChangeResponse, error) {
	to := filter.To
	if to != nil {
		end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())
		to = &end
	}
	domainFilter := shared.Filter{
		From:    filter.From,
		To:      to,
		Filters: make(map[string]any),
	}
	if err := setEnumFilters(domainFilter.Filters, filter.Direction, filter.Method, ""); err != nil {
		return nil, err
	}
	if err := setIDFilter(domainFilter.Filters, "party_id", filter.PartyID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindForTimeline(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, err
	}
	changes := finance.ChangesBetween(finance.ReconstructStatusChanges(payments), filter.From, to)
	return ToStatusChangeResponses(changes), nil
}

// Realize marks a pending cheque as cleared
func (s *PaymentService) Realize(ctx context.Context, businessLineID, id uuid.UUID, req TransitionRequest, by uuid.UUID) (*PaymentResponse, error) {
	return s.transition(ctx, businessLineID, id, finance.PaymentStatusRealized, req.Note, by)
}

// Bounce marks a pending cheque as dishonoured and undoes its effect
func (s *PaymentService) Bounce(ctx context.Context, businessLineID, id uuid.UUID, req TransitionRequest, by uuid.UUID) (*PaymentResponse, error) {
	return s.transition(ctx, businessLineID, id, finance.PaymentStatusBounced, req.Note, by)
}

// Settle marks a pending credit payment as paid off
func (s *PaymentService) Settle(ctx context.Context, businessLineID, id uuid.UUID, req TransitionRequest, by uuid.UUID) (*PaymentResponse, error) {
	return s.transition(ctx, businessLineID, id, finance.PaymentStatusSettled, req.Note, by)
}

// Cancel withdraws a pending payment and undoes its effect
func (s *PaymentService) Cancel(ctx context.Context, businessLineID, id uuid.UUID, req TransitionRequest, by uuid.UUID) (*PaymentResponse, error) {
	return s.transition(ctx, businessLineID, id, finance.PaymentStatusCancelled, req.Note, by)
}

func (s *PaymentService) transition(ctx context.Context, businessLineID, id uuid.UUID, target finance.PaymentStatus, note string, by uuid.UUID) (_ *PaymentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "transition",
		telemetry.AttrBusinessLineID, businessLineID,
		telemetry.AttrPaymentID, id,
		"payment.target_status", string(target),
	)
	defer func() { telemetry.End(span, err) }()

	var t touched
	var from finance.PaymentStatus

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.FindByID(ctx, businessLineID, id)
		if err != nil {
			return err
		}
		t.payment, from = payment, payment.Status

		switch target {
		case finance.PaymentStatusRealized:
			err = payment.Realize(by, note)
		case finance.PaymentStatusBounced:
			err = payment.Bounce(by, note)
		case finance.PaymentStatusSettled:
			err = payment.Settle(by, note)
		case finance.PaymentStatusCancelled:
			err = payment.Cancel(by, note)
		}
		if err != nil {
			return err
		}

		if payment.ReleasesFunds(target) {
			if err := s.release(ctx, &t); err != nil {
				return err
			}
		} else if target == finance.PaymentStatusSettled {
			if err := s.releaseCredit(ctx, &t); err != nil {
				return err
			}
		}

		return s.paymentRepo.SaveWithLock(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.publishAll(ctx, t)
	s.logger.Info("Payment status changed",
		zap.String("business_line_id", businessLineID.String()),
		zap.String("payment_number", t.payment.PaymentNumber),
		zap.String("from", from.String()),
		zap.String("to", target.String()))

	response := ToPaymentResponse(t.payment)
	return &response, nil
}

// release undoes what recording the payment did: the invoice application,
// the customer's credit charge and the vendor payable reduction
func (s *PaymentService) release(ctx context.Context, t *touched) error {
	p := t.payment
	if p.InvoiceID != nil {
		invoice, err := s.invoiceRepo.FindByID(ctx, p.BusinessLineID, *p.InvoiceID)
		if err != nil {
			return err
		}
		if err := invoice.ReversePayment(p.Amount); err != nil {
			return err
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		t.invoice = invoice
	}

	if p.IsIncoming() {
		if p.Method == finance.PaymentMethodCredit {
			return s.releaseCredit(ctx, t)
		}
		return nil
	}

	vendor, err := s.vendorRepo.FindByID(ctx, p.BusinessLineID, p.PartyID)
	if err != nil {
		return err
	}
	if err := vendor.AddPayable(p.Amount); err != nil {
		return err
	}
	if err := s.vendorRepo.SaveWithLock(ctx, vendor); err != nil {
		return err
	}
	t.vendor = vendor
	return nil
}

func (s *PaymentService) releaseCredit(ctx context.Context, t *touched) error {
	p := t.payment
	customer, err := s.customerRepo.FindByID(ctx, p.BusinessLineID, p.PartyID)
	if err != nil {
		return err
	}
	if err := customer.ReleaseCredit(p.Amount); err != nil {
		return err
	}
	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return err
	}
	t.customer = customer
	return nil
}

func (s *PaymentService) publishAll(ctx context.Context, t touched) {
	aggregates := []shared.AggregateRoot{t.payment}
	if t.invoice != nil {
		aggregates = append(aggregates, t.invoice)
	}
	if t.customer != nil {
		aggregates = append(aggregates, t.customer)
	}
	if t.vendor != nil {
		aggregates = append(aggregates, t.vendor)
	}
	for _, agg := range aggregates {
		if err := shared.PublishAndClear(ctx, s.eventPublisher, agg); err != nil {
			s.logger.Warn("Failed to publish payment events",
				zap.String("payment_id", t.payment.ID.String()),
				zap.Error(err))
		}
	}
}

func setEnumFilters(filters map[string]any, direction, method, status string) error {
	if direction != "" {
		if !finance.Direction(direction).IsValid() {
			return shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid direction "+direction)
		}
		filters["direction"] = direction
	}
	if method != "" {
		if !finance.PaymentMethod(method).IsValid() {
			return shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid payment method "+method)
		}
		filters["method"] = method
	}
	if status != "" {
		if !finance.PaymentStatus(status).IsValid() {
			return shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid payment status "+status)
		}
		filters["status"] = status
	}
	return nil
}

func setIDFilter(filters map[string]any, key, raw string) error {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid "+key)
	}
	filters[key] = id
	return nil
}
