package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells whether money comes in from a customer or goes out to a vendor
type Direction string

const (
	DirectionIncoming Direction = "INCOMING"
	DirectionOutgoing Direction = "OUTGOING"
)

func (d Direction) IsValid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// PaymentMethod represents the method of payment
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodCredit       PaymentMethod = "CREDIT"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodCredit:
		return true
	}
	return false
}

// IsDeferred reports whether the payment starts out PENDING
func (m PaymentMethod) IsDeferred() bool {
	return m == PaymentMethodCheque || m == PaymentMethodCredit
}

func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus represents where a payment is in its lifecycle
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusRealized  PaymentStatus = "REALIZED"
	PaymentStatusBounced   PaymentStatus = "BOUNCED"
	PaymentStatusSettled   PaymentStatus = "SETTLED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusRealized, PaymentStatusBounced,
		PaymentStatusSettled, PaymentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true once no further transition is possible
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentStatusPending
}

func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransition reports whether a payment of the given method may move from s to target.
//
//	CHEQUE: PENDING -> REALIZED | BOUNCED | CANCELLED
//	CREDIT: PENDING -> SETTLED | CANCELLED
//	CASH, BANK_TRANSFER: created REALIZED, no transitions
func (s PaymentStatus) CanTransition(method PaymentMethod, target PaymentStatus) bool {
	if s != PaymentStatusPending {
		return false
	}
	switch target {
	case PaymentStatusRealized, PaymentStatusBounced:
		return method == PaymentMethodCheque
	case PaymentStatusSettled:
		return method == PaymentMethodCredit
	case PaymentStatusCancelled:
		return true
	}
	return false
}

// ChequeDetails identifies a physical cheque
type ChequeDetails struct {
	Number string
	Bank   string
	Date   *time.Time // date the cheque can be presented
}

// StatusChange is one step of a payment's lifecycle.
// From is empty for the entry recorded when the payment was created.
type StatusChange struct {
	ID            uuid.UUID
	PaymentID     uuid.UUID
	PaymentNumber string
	Method        PaymentMethod
	Amount        decimal.Decimal
	From          PaymentStatus
	To            PaymentStatus
	ChangedAt     time.Time
	ChangedBy     *uuid.UUID
	Note          string
}

// Payment is money received from a customer or paid to a vendor
type Payment struct {
	shared.ScopedAggregateRoot
	PaymentNumber string
	Direction     Direction
	PartyID       uuid.UUID
	PartyName     string
	InvoiceID     *uuid.UUID
	Method        PaymentMethod
	Amount        decimal.Decimal
	Status        PaymentStatus
	Cheque        ChequeDetails
	DueDate       *time.Time // expected settlement date of a credit payment
	PaidAt        time.Time  // business date of the payment
	RealizedAt    *time.Time
	BouncedAt     *time.Time
	SettledAt     *time.Time
	CancelledAt   *time.Time
	Notes         string
	History       []StatusChange
}

// NewPaymentInput carries the fields needed to record a payment
type NewPaymentInput struct {
	PaymentNumber string
	Direction     Direction
	PartyID       uuid.UUID
	PartyName     string
	InvoiceID     *uuid.UUID
	Method        PaymentMethod
	Amount        decimal.Decimal
	Cheque        ChequeDetails
	DueDate       *time.Time
	PaidAt        *time.Time
	Notes         string
	RecordedBy    uuid.UUID
}

// NewPayment validates the input and records a payment in its initial status
func NewPayment(businessLineID uuid.UUID, in NewPaymentInput) (*Payment, error) {
	if !in.Direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be INCOMING or OUTGOING")
	}
	if !in.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method "+string(in.Method))
	}
	if in.PartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Party ID cannot be empty")
	}
	if !in.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if in.Method == PaymentMethodCredit && in.Direction != DirectionIncoming {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Credit payments are only accepted from customers")
	}
	if in.InvoiceID != nil && in.Direction != DirectionIncoming {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Only incoming payments can be applied to sales invoices")
	}
	cheque := ChequeDetails{
		Number: strings.TrimSpace(in.Cheque.Number),
		Bank:   strings.TrimSpace(in.Cheque.Bank),
		Date:   in.Cheque.Date,
	}
	if in.Method == PaymentMethodCheque {
		if cheque.Number == "" {
			return nil, shared.NewDomainError("INVALID_CHEQUE", "Cheque number is required")
		}
	} else {
		cheque = ChequeDetails{}
	}

	now := time.Now()
	paidAt := now
	if in.PaidAt != nil {
		paidAt = *in.PaidAt
	}
	number := strings.TrimSpace(in.PaymentNumber)
	if number == "" {
		number = shared.GenerateDocumentNumber("PAY", paidAt)
	}
	if cheque.Date == nil && in.Method == PaymentMethodCheque {
		d := paidAt
		cheque.Date = &d
	}

	p := &Payment{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(businessLineID),
		PaymentNumber:       number,
		Direction:           in.Direction,
		PartyID:             in.PartyID,
		PartyName:           in.PartyName,
		InvoiceID:           in.InvoiceID,
		Method:              in.Method,
		Amount:              in.Amount,
		Cheque:              cheque,
		PaidAt:              paidAt,
		Notes:               in.Notes,
		History:             make([]StatusChange, 0, 2),
	}
	if in.Method == PaymentMethodCredit {
		p.DueDate = in.DueDate
	}
	p.SetCreatedBy(in.RecordedBy)

	initial := PaymentStatusRealized
	if in.Method.IsDeferred() {
		initial = PaymentStatusPending
	}
	p.Status = initial
	if initial == PaymentStatusRealized {
		p.RealizedAt = &now
	}
	p.record("", initial, now, in.RecordedBy, "")
	p.AddDomainEvent(NewPaymentRecordedEvent(p))
	return p, nil
}

// Realize marks a pending cheque as cleared
func (p *Payment) Realize(by uuid.UUID, note string) error {
	return p.transition(PaymentStatusRealized, by, note)
}

// Bounce marks a pending cheque as dishonoured
func (p *Payment) Bounce(by uuid.UUID, note string) error {
	return p.transition(PaymentStatusBounced, by, note)
}

// Settle marks a pending credit payment as paid off
func (p *Payment) Settle(by uuid.UUID, note string) error {
	return p.transition(PaymentStatusSettled, by, note)
}

// Cancel withdraws a pending payment
func (p *Payment) Cancel(by uuid.UUID, note string) error {
	return p.transition(PaymentStatusCancelled, by, note)
}

func (p *Payment) transition(target PaymentStatus, by uuid.UUID, note string) error {
	if !p.Status.CanTransition(p.Method, target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("A %s payment in status %s cannot become %s", p.Method, p.Status, target))
	}
	now := time.Now()
	from := p.Status
	p.Status = target
	switch target {
	case PaymentStatusRealized:
		p.RealizedAt = &now
	case PaymentStatusBounced:
		p.BouncedAt = &now
	case PaymentStatusSettled:
		p.SettledAt = &now
	case PaymentStatusCancelled:
		p.CancelledAt = &now
	}
	p.record(from, target, now, by, note)
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, from, target, note))
	return nil
}

func (p *Payment) record(from, to PaymentStatus, at time.Time, by uuid.UUID, note string) {
	change := StatusChange{
		ID:            uuid.New(),
		PaymentID:     p.ID,
		PaymentNumber: p.PaymentNumber,
		Method:        p.Method,
		Amount:        p.Amount,
		From:          from,
		To:            to,
		ChangedAt:     at,
		Note:          strings.TrimSpace(note),
	}
	if by != uuid.Nil {
		change.ChangedBy = &by
	}
	p.History = append(p.History, change)
}

// ReleasesFunds reports whether moving to the given status undoes the
// payment's effect on invoices and balances
func (p *Payment) ReleasesFunds(target PaymentStatus) bool {
	return target == PaymentStatusBounced || target == PaymentStatusCancelled
}

// IsChequeOverdue reports whether a pending cheque is past its date by more than grace
func (p *Payment) IsChequeOverdue(now time.Time, grace time.Duration) bool {
	if p.Method != PaymentMethodCheque || p.Status != PaymentStatusPending || p.Cheque.Date == nil {
		return false
	}
	return now.Sub(*p.Cheque.Date) > grace
}

// IsIncoming reports whether the payment was received from a customer
func (p *Payment) IsIncoming() bool {
	return p.Direction == DirectionIncoming
}
