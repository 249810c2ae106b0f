package businessline

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/businessline"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BusinessLineService handles business line administration
type BusinessLineService struct {
	repo      businessline.Repository
	txManager shared.TxManager
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewBusinessLineService creates a new BusinessLineService
func NewBusinessLineService(
	repo businessline.Repository,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *BusinessLineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusinessLineService{
		repo:      repo,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a new business line
func (s *BusinessLineService) Create(ctx context.Context, req CreateBusinessLineRequest) (*BusinessLineResponse, error) {
	line, err := businessline.NewBusinessLine(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, line.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Business line with code "+line.Code+" already exists")
	}

	if req.Description != "" {
		if err := line.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, line); err != nil {
		return nil, err
	}
	s.publish(ctx, line)

	response := ToBusinessLineResponse(line)
	return &response, nil
}

// GetByID retrieves a business line by ID
func (s *BusinessLineService) GetByID(ctx context.Context, id uuid.UUID) (*BusinessLineResponse, error) {
	line, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBusinessLineResponse(line)
	return &response, nil
}

// List retrieves business lines. A non-nil restrictTo limits the result to those IDs.
func (s *BusinessLineService) List(ctx context.Context, filter BusinessLineListFilter, restrictTo []uuid.UUID) ([]BusinessLineResponse, int64, error) {
	if restrictTo != nil {
		lines, err := s.repo.FindByIDs(ctx, restrictTo)
		if err != nil {
			return nil, 0, err
		}
		return ToBusinessLineResponses(lines), int64(len(lines)), nil
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "code"
		domainFilter.OrderDir = "asc"
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter = domainFilter.Normalize()

	lines, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBusinessLineResponses(lines), total, nil
}

// Update changes the name and description
func (s *BusinessLineService) Update(ctx context.Context, id uuid.UUID, req UpdateBusinessLineRequest) (*BusinessLineResponse, error) {
	line, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := line.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, line); err != nil {
		return nil, err
	}
	s.publish(ctx, line)

	response := ToBusinessLineResponse(line)
	return &response, nil
}

// Activate re-enables writes in a business line
func (s *BusinessLineService) Activate(ctx context.Context, id uuid.UUID) (*BusinessLineResponse, error) {
	return s.changeStatus(ctx, id, (*businessline.BusinessLine).Activate)
}

// Deactivate blocks new writes in a business line
func (s *BusinessLineService) Deactivate(ctx context.Context, id uuid.UUID) (*BusinessLineResponse, error) {
	return s.changeStatus(ctx, id, (*businessline.BusinessLine).Deactivate)
}

func (s *BusinessLineService) changeStatus(ctx context.Context, id uuid.UUID, change func(*businessline.BusinessLine) error) (*BusinessLineResponse, error) {
	line, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(line); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, line); err != nil {
		return nil, err
	}
	s.publish(ctx, line)

	response := ToBusinessLineResponse(line)
	return &response, nil
}

// Dependencies reports how many records of each kind are scoped to the business line
func (s *BusinessLineService) Dependencies(ctx context.Context, id uuid.UUID) (*DependencyReport, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	deps, err := s.repo.CountDependencies(ctx, id)
	if err != nil {
		return nil, err
	}
	return newDependencyReport(id, deps), nil
}

// Delete removes a business line. Without force the delete is refused while any
// record is scoped to the line; with force every dependent record is removed in
// the same transaction.
func (s *BusinessLineService) Delete(ctx context.Context, id uuid.UUID, force bool) (*DeleteResult, error) {
	var line *businessline.BusinessLine
	result := &DeleteResult{BusinessLineID: id, Forced: force, Removed: shared.Dependencies{}}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		line, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		deps, err := s.repo.CountDependencies(ctx, id)
		if err != nil {
			return err
		}
		if !deps.HasAny() {
			return s.repo.Delete(ctx, id)
		}
		if !force {
			return shared.NewHasDependenciesError("Business line "+line.Code, deps)
		}

		removed, err := s.repo.DeleteCascade(ctx, id)
		if err != nil {
			return err
		}
		result.Removed = removed.NonZero()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if force {
		s.logger.Warn("Business line force deleted",
			zap.String("business_line_id", id.String()),
			zap.String("code", line.Code),
			zap.Int64("removed_records", result.Removed.Total()))
	}
	line.MarkDeleted(force, result.Removed)
	s.publish(ctx, line)
	return result, nil
}

// publish hands pending events to the bus. Delivery failures never undo a committed write.
func (s *BusinessLineService) publish(ctx context.Context, line *businessline.BusinessLine) {
	if err := shared.PublishAndClear(ctx, s.publisher, line); err != nil {
		s.logger.Warn("Failed to publish business line events", zap.Error(err))
	}
}
