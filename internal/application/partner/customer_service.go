package partner

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/partner"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, publisher shared.EventPublisher, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, businessLineID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(businessLineID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.customerRepo.ExistsByCode(ctx, businessLineID, customer.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Customer with code "+customer.Code+" already exists")
	}

	if err := customer.SetContact(partner.Contact{
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
	}); err != nil {
		return nil, err
	}
	if req.TaxID != "" || req.Notes != "" {
		if err := customer.Update(req.Name, req.TaxID, req.Notes); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}
	customer.SetCreatedBy(req.CreatedBy)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, businessLineID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, businessLineID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a list of customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, businessLineID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := buildFilter(filter.Search, filter.Status, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)

	customers, err := s.customerRepo.FindAll(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, businessLineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// Update applies a partial update. Lowering the credit limit below the
// outstanding credit is rejected by the customer.
func (s *CustomerService) Update(ctx context.Context, businessLineID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, businessLineID, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(
		orDefault(req.Name, customer.Name),
		orDefault(req.TaxID, customer.TaxID),
		orDefault(req.Notes, customer.Notes),
	); err != nil {
		return nil, err
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil || req.Address != nil {
		if err := customer.SetContact(partner.Contact{
			ContactName: orDefault(req.ContactName, customer.Contact.ContactName),
			Phone:       orDefault(req.Phone, customer.Contact.Phone),
			Email:       orDefault(req.Email, customer.Contact.Email),
			Address:     orDefault(req.Address, customer.Contact.Address),
		}); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Credit returns the credit position of a customer
func (s *CustomerService) Credit(ctx context.Context, businessLineID, customerID uuid.UUID) (*CreditResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, businessLineID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCreditResponse(customer)
	return &response, nil
}

// Activate activates a customer
func (s *CustomerService) Activate(ctx context.Context, businessLineID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, businessLineID, customerID, (*partner.Customer).Activate)
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, businessLineID, customerID uuid.UUID) (*CustomerResponse, error) {
	return s.changeStatus(ctx, businessLineID, customerID, (*partner.Customer).Deactivate)
}

func (s *CustomerService) changeStatus(ctx context.Context, businessLineID, customerID uuid.UUID, change func(*partner.Customer) error) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, businessLineID, customerID)
	if err != nil {
		return nil, err
	}
	if err := change(customer); err != nil {
		return nil, err
	}
	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a customer that no invoice or payment references
func (s *CustomerService) Delete(ctx context.Context, businessLineID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, businessLineID, customerID)
	if err != nil {
		return err
	}

	deps, err := s.customerRepo.CountDependencies(ctx, businessLineID, customerID)
	if err != nil {
		return err
	}
	if deps.HasAny() {
		return shared.NewHasDependenciesError("Customer "+customer.Code, deps)
	}

	if err := s.customerRepo.Delete(ctx, businessLineID, customerID); err != nil {
		return err
	}
	customer.MarkDeleted()
	s.publish(ctx, customer)
	return nil
}

func (s *CustomerService) publish(ctx context.Context, customer *partner.Customer) {
	if err := shared.PublishAndClear(ctx, s.publisher, customer); err != nil {
		s.logger.Warn("Failed to publish customer events", zap.Error(err))
	}
}

func buildFilter(search, status string, page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
		Filters:  make(map[string]any),
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
		filter.OrderDir = "asc"
	}
	if status != "" {
		filter.Filters["status"] = status
	}
	return filter.Normalize()
}
