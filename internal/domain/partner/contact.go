package partner

import (
	"regexp"
	"strings"

	"github.com/bizline/backoffice/internal/domain/shared"
)

// PartnerStatus is the status shared by customers and vendors
type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "active"
	PartnerStatusInactive PartnerStatus = "inactive"
)

// IsValid checks if the status is a known value
func (s PartnerStatus) IsValid() bool {
	return s == PartnerStatusActive || s == PartnerStatusInactive
}

const (
	codeMaxLength = 50
	nameMaxLength = 200
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Contact groups the reachability details of a customer or vendor
type Contact struct {
	ContactName string
	Phone       string
	Email       string
	Address     string
}

// Normalize trims every field and lower-cases the email
func (c Contact) Normalize() Contact {
	return Contact{
		ContactName: strings.TrimSpace(c.ContactName),
		Phone:       strings.TrimSpace(c.Phone),
		Email:       strings.ToLower(strings.TrimSpace(c.Email)),
		Address:     strings.TrimSpace(c.Address),
	}
}

// Validate checks the optional phone and email formats
func (c Contact) Validate() error {
	if len(c.ContactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT", "Contact name cannot exceed 100 characters")
	}
	if c.Phone != "" {
		if len(c.Phone) > 50 {
			return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
		}
		if !phonePattern.MatchString(c.Phone) {
			return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
		}
	}
	if c.Email != "" {
		if len(c.Email) > 200 {
			return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
		}
		if !emailPattern.MatchString(c.Email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	return nil
}

func validatePartnerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > nameMaxLength {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
