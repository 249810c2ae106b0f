package identity

import (
	"context"

	"github.com/bizline/backoffice/internal/domain/businessline"
	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CodeLastAdmin is returned when a change would leave no active administrator
const CodeLastAdmin = "LAST_ADMIN"

// UserService handles user administration
// User rows and their business line assignments are written in one transaction.
type UserService struct {
	userRepo  identity.UserRepository
	lineRepo  businessline.Repository
	txManager shared.TxManager
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	lineRepo businessline.Repository,
	txManager shared.TxManager,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:  userRepo,
		lineRepo:  lineRepo,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Username "+user.Username+" is already taken")
	}

	if err := user.SetProfile(req.DisplayName, req.Email); err != nil {
		return nil, err
	}
	if len(req.BusinessLineIDs) > 0 {
		if err := s.checkBusinessLines(ctx, req.BusinessLineIDs); err != nil {
			return nil, err
		}
		user.AssignBusinessLines(req.BusinessLineIDs)
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.userRepo.Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users matching the filter
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "username"
		domainFilter.OrderDir = "asc"
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	domainFilter = domainFilter.Normalize()

	var lineID *uuid.UUID
	if filter.BusinessLineID != "" {
		id, err := uuid.Parse(filter.BusinessLineID)
		if err != nil {
			return nil, 0, shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid business line ID")
		}
		lineID = &id
	}

	users, err := s.userRepo.FindAll(ctx, lineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, lineID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toUserResponses(users), total, nil
}

// Update changes the display name and email
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	return s.modify(ctx, id, func(user *identity.User) error {
		return user.SetProfile(req.DisplayName, req.Email)
	})
}

// ChangeRole assigns a new role. The last active administrator cannot be demoted.
func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	role := identity.Role(req.Role)
	return s.modify(ctx, id, func(user *identity.User) error {
		if user.Role == identity.RoleAdmin && role != identity.RoleAdmin && user.IsActive() {
			if err := s.ensureAnotherAdmin(ctx); err != nil {
				return err
			}
		}
		return user.ChangeRole(role)
	})
}

// AssignBusinessLines replaces the business lines the user may access
func (s *UserService) AssignBusinessLines(ctx context.Context, id uuid.UUID, req AssignBusinessLinesRequest) (*UserResponse, error) {
	if err := s.checkBusinessLines(ctx, req.BusinessLineIDs); err != nil {
		return nil, err
	}
	return s.modify(ctx, id, func(user *identity.User) error {
		user.AssignBusinessLines(req.BusinessLineIDs)
		return nil
	})
}

// Activate re-enables a deactivated user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.modify(ctx, id, (*identity.User).Activate)
}

// Deactivate disables a user. Users cannot deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, id, actorID uuid.UUID) (*UserResponse, error) {
	if id == actorID {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "You cannot deactivate your own account")
	}
	return s.modify(ctx, id, func(user *identity.User) error {
		if user.Role == identity.RoleAdmin && user.IsActive() {
			if err := s.ensureAnotherAdmin(ctx); err != nil {
				return err
			}
		}
		return user.Deactivate()
	})
}

// ResetPassword sets a new password for another user
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	_, err := s.modify(ctx, id, func(user *identity.User) error {
		return user.ResetPassword(req.Password)
	})
	if err == nil {
		s.logger.Info("Password reset", zap.String("user_id", id.String()))
	}
	return err
}

// ChangeOwnPassword changes the caller's password after checking the current one
func (s *UserService) ChangeOwnPassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	_, err := s.modify(ctx, userID, func(user *identity.User) error {
		return user.ChangePassword(req.CurrentPassword, req.NewPassword)
	})
	return err
}

// Delete removes a user. Users cannot delete themselves and the last administrator stays.
func (s *UserService) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "You cannot delete your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == identity.RoleAdmin && user.IsActive() {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.userRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("user_id", id.String()), zap.String("username", user.Username))
	return nil
}

func (s *UserService) modify(ctx context.Context, id uuid.UUID, change func(*identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(user); err != nil {
		return nil, err
	}
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		return s.userRepo.SaveWithLock(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	response := ToUserResponse(user)
	return &response, nil
}

// ensureAnotherAdmin fails when the user being changed is the only active administrator
func (s *UserService) ensureAnotherAdmin(ctx context.Context) error {
	admins, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return shared.NewDomainError(CodeLastAdmin, "At least one active administrator must remain")
	}
	return nil
}

func (s *UserService) checkBusinessLines(ctx context.Context, ids []uuid.UUID) error {
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return shared.NewDomainError(shared.ErrInvalidInput.Code, "Business line ID cannot be empty")
		}
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return nil
	}

	wanted := make([]uuid.UUID, 0, len(unique))
	for id := range unique {
		wanted = append(wanted, id)
	}
	lines, err := s.lineRepo.FindByIDs(ctx, wanted)
	if err != nil {
		return err
	}
	if len(lines) != len(wanted) {
		return shared.NewDomainError(shared.ErrNotFound.Code, "One or more business lines do not exist")
	}
	return nil
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	if err := shared.PublishAndClear(ctx, s.publisher, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}
