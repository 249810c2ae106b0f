package finance

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypePayment = "Payment"

const (
	EventTypePaymentRecorded      = "PaymentRecorded"
	EventTypePaymentStatusChanged = "PaymentStatusChanged"
	EventTypeChequeOverdue        = "PaymentChequeOverdue"
)

// PaymentRecordedEvent is published when a payment is first recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	Direction     Direction       `json:"direction"`
	Method        PaymentMethod   `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PaymentStatus   `json:"status"`
	PartyID       uuid.UUID       `json:"party_id"`
}

func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypePayment, p.ID, p.BusinessLineID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		Direction:       p.Direction,
		Method:          p.Method,
		Amount:          p.Amount,
		Status:          p.Status,
		PartyID:         p.PartyID,
	}
}

// PaymentStatusChangedEvent is published for every lifecycle transition
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	Method        PaymentMethod   `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	From          PaymentStatus   `json:"from"`
	To            PaymentStatus   `json:"to"`
	Note          string          `json:"note,omitempty"`
}

func NewPaymentStatusChangedEvent(p *Payment, from, to PaymentStatus, note string) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentStatusChanged, AggregateTypePayment, p.ID, p.BusinessLineID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		Method:          p.Method,
		Amount:          p.Amount,
		From:            from,
		To:              to,
		Note:            note,
	}
}

// ChequeOverdueEvent is published by the overdue cheque sweep
type ChequeOverdueEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	ChequeNumber  string          `json:"cheque_number"`
	ChequeDate    time.Time       `json:"cheque_date"`
	Amount        decimal.Decimal `json:"amount"`
	DaysOverdue   int             `json:"days_overdue"`
}

func NewChequeOverdueEvent(p *Payment, now time.Time) *ChequeOverdueEvent {
	var chequeDate time.Time
	if p.Cheque.Date != nil {
		chequeDate = *p.Cheque.Date
	}
	return &ChequeOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChequeOverdue, AggregateTypePayment, p.ID, p.BusinessLineID),
		PaymentID:       p.ID,
		PaymentNumber:   p.PaymentNumber,
		ChequeNumber:    p.Cheque.Number,
		ChequeDate:      chequeDate,
		Amount:          p.Amount,
		DaysOverdue:     int(now.Sub(chequeDate).Hours() / 24),
	}
}
