package partner

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VendorService handles vendor-related business operations.
// The payable balance is maintained by purchase intakes and payments, never directly.
type VendorService struct {
	vendorRepo partner.VendorRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewVendorService creates a new VendorService
func NewVendorService(vendorRepo partner.VendorRepository, publisher shared.EventPublisher, logger *zap.Logger) *VendorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VendorService{
		vendorRepo: vendorRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create creates a new vendor
func (s *VendorService) Create(ctx context.Context, businessLineID uuid.UUID, req CreateVendorRequest) (*VendorResponse, error) {
	vendor, err := partner.NewVendor(businessLineID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.vendorRepo.ExistsByCode(ctx, businessLineID, vendor.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Vendor with code "+vendor.Code+" already exists")
	}

	if err := vendor.SetContact(partner.Contact{
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	}); err != nil {
		return nil, err
	}
	if req.TaxID != "" || req.Notes != "" {
		if err := vendor.Update(req.Name, req.TaxID, req.Notes); err != nil {
			return nil, err
		}
	}
	vendor.SetCreatedBy(req.CreatedBy)

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	s.publish(ctx, vendor)

	response := ToVendorResponse(vendor)
	return &response, nil
}

// GetByID retrieves a vendor by ID
func (s *VendorService) GetByID(ctx context.Context, businessLineID, vendorID uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, businessLineID, vendorID)
	if err != nil {
		return nil, err
	}
	response := ToVendorResponse(vendor)
	return &response, nil
}

// List retrieves a list of vendors with filtering and pagination
func (s *VendorService) List(ctx context.Context, businessLineID uuid.UUID, filter VendorListFilter) ([]VendorResponse, int64, error) {
	domainFilter := buildFilter(filter.Search, filter.Status, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)

	vendors, err := s.vendorRepo.FindAll(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.vendorRepo.Count(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]VendorResponse, len(vendors))
	for i := range vendors {
		responses[i] = ToVendorResponse(&vendors[i])
	}
	return responses, total, nil
}

// Update applies a partial update
func (s *VendorService) Update(ctx context.Context, businessLineID, vendorID uuid.UUID, req UpdateVendorRequest) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, businessLineID, vendorID)
	if err != nil {
		return nil, err
	}

	if err := vendor.Update(
		orDefault(req.Name, vendor.Name),
		orDefault(req.TaxID, vendor.TaxID),
		orDefault(req.Notes, vendor.Notes),
	); err != nil {
		return nil, err
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil || req.Address != nil {
		if err := vendor.SetContact(partner.Contact{
			ContactName: orDefault(req.ContactName, vendor.Contact.ContactName),
			Phone:       orDefault(req.Phone, vendor.Contact.Phone),
			Email:       orDefault(req.Email, vendor.Contact.Email),
			Address:     orDefault(req.Address, vendor.Contact.Address),
		}); err != nil {
			return nil, err
		}
	}

	if err := s.vendorRepo.SaveWithLock(ctx, vendor); err != nil {
		return nil, err
	}
	s.publish(ctx, vendor)

	response := ToVendorResponse(vendor)
	return &response, nil
}

// Activate activates a vendor
func (s *VendorService) Activate(ctx context.Context, businessLineID, vendorID uuid.UUID) (*VendorResponse, error) {
	return s.changeStatus(ctx, businessLineID, vendorID, (*partner.Vendor).Activate)
}

// Deactivate deactivates a vendor
func (s *VendorService) Deactivate(ctx context.Context, businessLineID, vendorID uuid.UUID) (*VendorResponse, error) {
	return s.changeStatus(ctx, businessLineID, vendorID, (*partner.Vendor).Deactivate)
}

func (s *VendorService) changeStatus(ctx context.Context, businessLineID, vendorID uuid.UUID, change func(*partner.Vendor) error) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, businessLineID, vendorID)
	if err != nil {
		return nil, err
	}
	if err := change(vendor); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.SaveWithLock(ctx, vendor); err != nil {
		return nil, err
	}
	s.publish(ctx, vendor)

	response := ToVendorResponse(vendor)
	return &response, nil
}

// Delete deletes a vendor that no intake or payment references
func (s *VendorService) Delete(ctx context.Context, businessLineID, vendorID uuid.UUID) error {
	vendor, err := s.vendorRepo.FindByID(ctx, businessLineID, vendorID)
	if err != nil {
		return err
	}

	deps, err := s.vendorRepo.CountDependencies(ctx, businessLineID, vendorID)
	if err != nil {
		return err
	}
	if deps.HasAny() {
		return shared.NewHasDependenciesError("Vendor "+vendor.Code, deps)
	}

	if err := s.vendorRepo.Delete(ctx, businessLineID, vendorID); err != nil {
		return err
	}
	vendor.MarkDeleted()
	s.publish(ctx, vendor)
	return nil
}

func (s *VendorService) publish(ctx context.Context, vendor *partner.Vendor) {
	if err := shared.PublishAndClear(ctx, s.publisher, vendor); err != nil {
		s.logger.Warn("Failed to publish vendor events", zap.Error(err))
	}
}
