package identity

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// bcrypt work factor, lowered in tests
var bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_\-.]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// User is a back-office operator. Users are not scoped to one business line;
// BusinessLineIDs lists the lines they may work in. Admins may work in all of them.
type User struct {
	shared.BaseAggregateRoot
	Username        string
	DisplayName     string
	Email           string
	PasswordHash    string
	Role            Role
	BusinessLineIDs []uuid.UUID
	Status          UserStatus
	LastLoginAt     *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(username, password string, role Role) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role "+string(role))
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		PasswordHash:      hash,
		Role:              role,
		BusinessLineIDs:   make([]uuid.UUID, 0),
		Status:            UserStatusActive,
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// SetProfile updates display name and email
func (u *User) SetProfile(displayName, email string) error {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && (len(email) > 200 || !emailPattern.MatchString(email)) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	u.DisplayName = displayName
	u.Email = email
	u.IncrementVersion()
	return nil
}

// ChangeRole assigns a different role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role "+string(role))
	}
	if u.Role == role {
		return nil
	}
	old := u.Role
	u.Role = role
	u.IncrementVersion()
	u.AddDomainEvent(NewUserRoleChangedEvent(u, old))
	return nil
}

// AssignBusinessLines replaces the set of accessible business lines
func (u *User) AssignBusinessLines(ids []uuid.UUID) {
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != uuid.Nil && !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}
	u.BusinessLineIDs = unique
	u.IncrementVersion()
}

// CanAccessBusinessLine reports whether the user may act inside the business line
func (u *User) CanAccessBusinessLine(id uuid.UUID) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return slices.Contains(u.BusinessLineIDs, id)
}

// HasPermission reports whether the user's role grants the permission
func (u *User) HasPermission(permission string) bool {
	return u.Role.HasPermission(permission)
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword verifies the current password and sets a new one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.ResetPassword(next)
}

// ResetPassword sets a new password without checking the old one
func (u *User) ResetPassword(next string) error {
	if err := validatePassword(next); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return shared.NewDomainErrorWithCause("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}
	u.PasswordHash = hash
	u.IncrementVersion()
	return nil
}

// RecordLogin stores the time of a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u *User) Activate() error {
	if u.IsActive() {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Status = UserStatusActive
	u.IncrementVersion()
	return nil
}

func (u *User) Deactivate() error {
	if !u.IsActive() {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.Status = UserStatusInactive
	u.IncrementVersion()
	return nil
}

func validateUsername(username string) error {
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
