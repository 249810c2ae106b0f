package finance

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest records a payment received from a customer or made to a vendor
type CreatePaymentRequest struct {
	PaymentNumber string          `json:"payment_number" binding:"max=50"`
	Direction     string          `json:"direction" binding:"required,oneof=INCOMING OUTGOING"`
	PartyID       uuid.UUID       `json:"party_id" binding:"required"`
	InvoiceID     *uuid.UUID      `json:"invoice_id"`
	Method        string          `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHEQUE CREDIT"`
	Amount        decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	ChequeNumber  string          `json:"cheque_number" binding:"required_if=Method CHEQUE,max=50"`
	BankName      string          `json:"bank_name" binding:"max=100"`
	ChequeDate    *time.Time      `json:"cheque_date"`
	DueDate       *time.Time      `json:"due_date"`
	PaidAt        *time.Time      `json:"paid_at"`
	Notes         string          `json:"notes" binding:"max=1000"`

	RecordedBy     uuid.UUID `json:"-"`
	IdempotencyKey string    `json:"-"`
}

// TransitionRequest is the body of realize, bounce, settle and cancel
type TransitionRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Search    string     `form:"search"`
	Direction string     `form:"direction" binding:"omitempty,oneof=INCOMING OUTGOING"`
	Method    string     `form:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER CHEQUE CREDIT"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING REALIZED BOUNCED SETTLED CANCELLED"`
	PartyID   string     `form:"party_id" binding:"omitempty,uuid"`
	InvoiceID string     `form:"invoice_id" binding:"omitempty,uuid"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PendingChequeFilter narrows the pending cheque list
type PendingChequeFilter struct {
	DueBefore *time.Time `form:"due_before" time_format:"2006-01-02"`
}

// StatusChangeFilter narrows the reconstructed status timeline
type StatusChangeFilter struct {
	PartyID   string     `form:"party_id" binding:"omitempty,uuid"`
	Method    string     `form:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER CHEQUE CREDIT"`
	Direction string     `form:"direction" binding:"omitempty,oneof=INCOMING OUTGOING"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// StatusChangeResponse is one step of a payment's lifecycle
type StatusChangeResponse struct {
	ID            uuid.UUID       `json:"id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	From          string          `json:"from,omitempty"`
	To            string          `json:"to"`
	ChangedAt     time.Time       `json:"changed_at"`
	ChangedBy     *uuid.UUID      `json:"changed_by,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID              `json:"id"`
	BusinessLineID uuid.UUID              `json:"business_line_id"`
	PaymentNumber  string                 `json:"payment_number"`
	Direction      string                 `json:"direction"`
	PartyID        uuid.UUID              `json:"party_id"`
	PartyName      string                 `json:"party_name"`
	InvoiceID      *uuid.UUID             `json:"invoice_id,omitempty"`
	Method         string                 `json:"method"`
	Amount         decimal.Decimal        `json:"amount"`
	Status         string                 `json:"status"`
	ChequeNumber   string                 `json:"cheque_number,omitempty"`
	BankName       string                 `json:"bank_name,omitempty"`
	ChequeDate     *time.Time             `json:"cheque_date,omitempty"`
	DueDate        *time.Time             `json:"due_date,omitempty"`
	PaidAt         time.Time              `json:"paid_at"`
	RealizedAt     *time.Time             `json:"realized_at,omitempty"`
	BouncedAt      *time.Time             `json:"bounced_at,omitempty"`
	SettledAt      *time.Time             `json:"settled_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	Notes          string                 `json:"notes"`
	History        []StatusChangeResponse `json:"history,omitempty"`
	CreatedBy      *uuid.UUID             `json:"created_by,omitempty"`
	Version        int                    `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:             p.ID,
		BusinessLineID: p.BusinessLineID,
		PaymentNumber:  p.PaymentNumber,
		Direction:      string(p.Direction),
		PartyID:        p.PartyID,
		PartyName:      p.PartyName,
		InvoiceID:      p.InvoiceID,
		Method:         p.Method.String(),
		Amount:         p.Amount,
		Status:         p.Status.String(),
		ChequeNumber:   p.Cheque.Number,
		BankName:       p.Cheque.Bank,
		ChequeDate:     p.Cheque.Date,
		DueDate:        p.DueDate,
		PaidAt:         p.PaidAt,
		RealizedAt:     p.RealizedAt,
		BouncedAt:      p.BouncedAt,
		SettledAt:      p.SettledAt,
		CancelledAt:    p.CancelledAt,
		Notes:          p.Notes,
		CreatedBy:      p.CreatedBy,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if len(p.History) > 0 {
		resp.History = ToStatusChangeResponses(p.History)
	}
	return resp
}

// ToStatusChangeResponses converts lifecycle steps to their API form
func ToStatusChangeResponses(changes []finance.StatusChange) []StatusChangeResponse {
	out := make([]StatusChangeResponse, len(changes))
	for i, c := range changes {
		out[i] = StatusChangeResponse{
			ID:            c.ID,
			PaymentID:     c.PaymentID,
			PaymentNumber: c.PaymentNumber,
			Method:        c.Method.String(),
			Amount:        c.Amount,
			From:          string(c.From),
			To:            string(c.To),
			ChangedAt:     c.ChangedAt,
			ChangedBy:     c.ChangedBy,
			Note:          c.Note,
		}
	}
	return out
}

func toPaymentResponses(payments []finance.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out
}
