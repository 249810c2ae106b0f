package models

import (
	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	ScopedAggregateModel
	Code              string                `gorm:"type:varchar(50);not null;index"`
	Name              string                `gorm:"type:varchar(200);not null"`
	ContactName       string                `gorm:"type:varchar(100)"`
	Phone             string                `gorm:"type:varchar(50)"`
	Email             string                `gorm:"type:varchar(200)"`
	Address           string                `gorm:"type:text"`
	TaxID             string                `gorm:"type:varchar(50)"`
	Notes             string                `gorm:"type:text"`
	CreditLimit       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingCredit decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status            partner.PartnerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		ScopedAggregateRoot: m.ToDomainScoped(),
		Code:                m.Code,
		Name:                m.Name,
		Contact: partner.Contact{
			ContactName: m.ContactName,
			Phone:       m.Phone,
			Email:       m.Email,
			Address:     m.Address,
		},
		TaxID:             m.TaxID,
		Notes:             m.Notes,
		CreditLimit:       m.CreditLimit,
		OutstandingCredit: m.OutstandingCredit,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainScoped(c.ScopedAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.ContactName = c.Contact.ContactName
	m.Phone = c.Contact.Phone
	m.Email = c.Contact.Email
	m.Address = c.Contact.Address
	m.TaxID = c.TaxID
	m.Notes = c.Notes
	m.CreditLimit = c.CreditLimit
	m.OutstandingCredit = c.OutstandingCredit
	m.Status = c.Status
}

func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// VendorModel is the persistence model for the Vendor aggregate
type VendorModel struct {
	ScopedAggregateModel
	Code           string                `gorm:"type:varchar(50);not null;index"`
	Name           string                `gorm:"type:varchar(200);not null"`
	ContactName    string                `gorm:"type:varchar(100)"`
	Phone          string                `gorm:"type:varchar(50)"`
	Email          string                `gorm:"type:varchar(200)"`
	Address        string                `gorm:"type:text"`
	TaxID          string                `gorm:"type:varchar(50)"`
	Notes          string                `gorm:"type:text"`
	PayableBalance decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status         partner.PartnerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (VendorModel) TableName() string {
	return "vendors"
}

func (m *VendorModel) ToDomain() *partner.Vendor {
	return &partner.Vendor{
		ScopedAggregateRoot: m.ToDomainScoped(),
		Code:                m.Code,
		Name:                m.Name,
		Contact: partner.Contact{
			ContactName: m.ContactName,
			Phone:       m.Phone,
			Email:       m.Email,
			Address:     m.Address,
		},
		TaxID:          m.TaxID,
		Notes:          m.Notes,
		PayableBalance: m.PayableBalance,
		Status:         m.Status,
	}
}

func (m *VendorModel) FromDomain(v *partner.Vendor) {
	m.FromDomainScoped(v.ScopedAggregateRoot)
	m.Code = v.Code
	m.Name = v.Name
	m.ContactName = v.Contact.ContactName
	m.Phone = v.Contact.Phone
	m.Email = v.Contact.Email
	m.Address = v.Contact.Address
	m.TaxID = v.TaxID
	m.Notes = v.Notes
	m.PayableBalance = v.PayableBalance
	m.Status = v.Status
}

func VendorModelFromDomain(v *partner.Vendor) *VendorModel {
	m := &VendorModel{}
	m.FromDomain(v)
	return m
}
