package partner

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code        string           `json:"code" binding:"required,code"`
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	ContactName string           `json:"contact_name" binding:"max=100"`
	Phone       string           `json:"phone" binding:"max=50"`
	Email       string           `json:"email" binding:"omitempty,email,max=200"`
	Address     string           `json:"address" binding:"max=500"`
	TaxID       string           `json:"tax_id" binding:"max=50"`
	Notes       string           `json:"notes"`
	CreditLimit *decimal.Decimal `json:"credit_limit" binding:"omitempty,decimal_gte0"`
	CreatedBy   uuid.UUID        `json:"-"` // Set from JWT context, not from request body
}

// UpdateCustomerRequest represents a partial update of a customer
type UpdateCustomerRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName *string          `json:"contact_name" binding:"omitempty,max=100"`
	Phone       *string          `json:"phone" binding:"omitempty,max=50"`
	Email       *string          `json:"email" binding:"omitempty,email,max=200"`
	Address     *string          `json:"address" binding:"omitempty,max=500"`
	TaxID       *string          `json:"tax_id" binding:"omitempty,max=50"`
	Notes       *string          `json:"notes"`
	CreditLimit *decimal.Decimal `json:"credit_limit" binding:"omitempty,decimal_gte0"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                uuid.UUID       `json:"id"`
	BusinessLineID    uuid.UUID       `json:"business_line_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	ContactName       string          `json:"contact_name"`
	Phone             string          `json:"phone"`
	Email             string          `json:"email"`
	Address           string          `json:"address"`
	TaxID             string          `json:"tax_id"`
	Notes             string          `json:"notes"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	AvailableCredit   decimal.Decimal `json:"available_credit"`
	Status            string          `json:"status"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CreditResponse is the credit position of a customer
type CreditResponse struct {
	CustomerID        uuid.UUID       `json:"customer_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	AvailableCredit   decimal.Decimal `json:"available_credit"`
	Utilization       decimal.Decimal `json:"utilization_percent"`
	AtLimit           bool            `json:"at_limit"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID,
		BusinessLineID:    c.BusinessLineID,
		Code:              c.Code,
		Name:              c.Name,
		ContactName:       c.Contact.ContactName,
		Phone:             c.Contact.Phone,
		Email:             c.Contact.Email,
		Address:           c.Contact.Address,
		TaxID:             c.TaxID,
		Notes:             c.Notes,
		CreditLimit:       c.CreditLimit,
		OutstandingCredit: c.OutstandingCredit,
		AvailableCredit:   c.AvailableCredit(),
		Status:            string(c.Status),
		Version:           c.Version,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToCreditResponse converts a domain Customer to CreditResponse
func ToCreditResponse(c *partner.Customer) CreditResponse {
	return CreditResponse{
		CustomerID:        c.ID,
		Code:              c.Code,
		Name:              c.Name,
		CreditLimit:       c.CreditLimit,
		OutstandingCredit: c.OutstandingCredit,
		AvailableCredit:   c.AvailableCredit(),
		Utilization:       c.CreditUtilization(),
		AtLimit:           c.CreditLimit.IsPositive() && c.AvailableCredit().IsZero(),
	}
}

// =============================================================================
// Vendor DTOs
// =============================================================================

// CreateVendorRequest represents a request to create a new vendor
type CreateVendorRequest struct {
	Code        string    `json:"code" binding:"required,code"`
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	ContactName string    `json:"contact_name" binding:"max=100"`
	Phone       string    `json:"phone" binding:"max=50"`
	Email       string    `json:"email" binding:"omitempty,email,max=200"`
	Address     string    `json:"address" binding:"max=500"`
	TaxID       string    `json:"tax_id" binding:"max=50"`
	Notes       string    `json:"notes"`
	CreatedBy   uuid.UUID `json:"-"`
}

// UpdateVendorRequest represents a partial update of a vendor
type UpdateVendorRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	TaxID       *string `json:"tax_id" binding:"omitempty,max=50"`
	Notes       *string `json:"notes"`
}

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID             uuid.UUID       `json:"id"`
	BusinessLineID uuid.UUID       `json:"business_line_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	ContactName    string          `json:"contact_name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	TaxID          string          `json:"tax_id"`
	Notes          string          `json:"notes"`
	PayableBalance decimal.Decimal `json:"payable_balance"`
	Status         string          `json:"status"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// VendorListFilter represents filter options for the vendor list
type VendorListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToVendorResponse converts a domain Vendor to VendorResponse
func ToVendorResponse(v *partner.Vendor) VendorResponse {
	return VendorResponse{
		ID:             v.ID,
		BusinessLineID: v.BusinessLineID,
		Code:           v.Code,
		Name:           v.Name,
		ContactName:    v.Contact.ContactName,
		Phone:          v.Contact.Phone,
		Email:          v.Contact.Email,
		Address:        v.Contact.Address,
		TaxID:          v.TaxID,
		Notes:          v.Notes,
		PayableBalance: v.PayableBalance,
		Status:         string(v.Status),
		Version:        v.Version,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func orDefault(p *string, current string) string {
	if p == nil {
		return current
	}
	return *p
}
