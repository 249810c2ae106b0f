package models

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate.
// Recorded status history lives in payment_status_changes.
type PaymentModel struct {
	ScopedAggregateModel
	PaymentNumber string                `gorm:"type:varchar(50);not null;index"`
	Direction     finance.Direction     `gorm:"type:varchar(10);not null"`
	PartyID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	PartyName     string                `gorm:"type:varchar(200)"`
	InvoiceID     *uuid.UUID            `gorm:"type:uuid;index"`
	Method        finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status        finance.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	ChequeNumber  string                `gorm:"type:varchar(50)"`
	ChequeBank    string                `gorm:"type:varchar(100)"`
	ChequeDate    *time.Time
	DueDate       *time.Time
	PaidAt        time.Time `gorm:"not null;index"`
	RealizedAt    *time.Time
	BouncedAt     *time.Time
	SettledAt     *time.Time
	CancelledAt   *time.Time
	Notes         string `gorm:"type:text"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentStatusChangeModel is one recorded lifecycle step
type PaymentStatusChangeModel struct {
	ID         uuid.UUID             `gorm:"type:uuid;primaryKey"`
	PaymentID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	FromStatus finance.PaymentStatus `gorm:"type:varchar(20)"`
	ToStatus   finance.PaymentStatus `gorm:"type:varchar(20);not null"`
	ChangedAt  time.Time             `gorm:"not null"`
	ChangedBy  *uuid.UUID            `gorm:"type:uuid"`
	Note       string                `gorm:"type:text"`
}

func (PaymentStatusChangeModel) TableName() string {
	return "payment_status_changes"
}

// ToDomain converts the payment row and its history rows to the domain aggregate
func (m *PaymentModel) ToDomain(history []PaymentStatusChangeModel) *finance.Payment {
	p := &finance.Payment{
		ScopedAggregateRoot: m.ToDomainScoped(),
		PaymentNumber:       m.PaymentNumber,
		Direction:           m.Direction,
		PartyID:             m.PartyID,
		PartyName:           m.PartyName,
		InvoiceID:           m.InvoiceID,
		Method:              m.Method,
		Amount:              m.Amount,
		Status:              m.Status,
		Cheque: finance.ChequeDetails{
			Number: m.ChequeNumber,
			Bank:   m.ChequeBank,
			Date:   m.ChequeDate,
		},
		DueDate:     m.DueDate,
		PaidAt:      m.PaidAt,
		RealizedAt:  m.RealizedAt,
		BouncedAt:   m.BouncedAt,
		SettledAt:   m.SettledAt,
		CancelledAt: m.CancelledAt,
		Notes:       m.Notes,
		History:     make([]finance.StatusChange, 0, len(history)),
	}
	for _, h := range history {
		p.History = append(p.History, finance.StatusChange{
			ID:            h.ID,
			PaymentID:     m.ID,
			PaymentNumber: m.PaymentNumber,
			Method:        m.Method,
			Amount:        m.Amount,
			From:          h.FromStatus,
			To:            h.ToStatus,
			ChangedAt:     h.ChangedAt,
			ChangedBy:     h.ChangedBy,
			Note:          h.Note,
		})
	}
	return p
}

// PaymentModelFromDomain splits the aggregate into the payment row and its history rows
func PaymentModelFromDomain(p *finance.Payment) (*PaymentModel, []PaymentStatusChangeModel) {
	m := &PaymentModel{
		PaymentNumber: p.PaymentNumber,
		Direction:     p.Direction,
		PartyID:       p.PartyID,
		PartyName:     p.PartyName,
		InvoiceID:     p.InvoiceID,
		Method:        p.Method,
		Amount:        p.Amount,
		Status:        p.Status,
		ChequeNumber:  p.Cheque.Number,
		ChequeBank:    p.Cheque.Bank,
		ChequeDate:    p.Cheque.Date,
		DueDate:       p.DueDate,
		PaidAt:        p.PaidAt,
		RealizedAt:    p.RealizedAt,
		BouncedAt:     p.BouncedAt,
		SettledAt:     p.SettledAt,
		CancelledAt:   p.CancelledAt,
		Notes:         p.Notes,
	}
	m.FromDomainScoped(p.ScopedAggregateRoot)

	history := make([]PaymentStatusChangeModel, 0, len(p.History))
	for _, h := range p.History {
		history = append(history, PaymentStatusChangeModel{
			ID:         h.ID,
			PaymentID:  p.ID,
			FromStatus: h.From,
			ToStatus:   h.To,
			ChangedAt:  h.ChangedAt,
			ChangedBy:  h.ChangedBy,
			Note:       h.Note,
		})
	}
	return m, history
}
