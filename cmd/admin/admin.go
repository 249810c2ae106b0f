package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	blapp "github.com/bizline/backoffice/internal/application/businessline"
	identityapp "github.com/bizline/backoffice/internal/application/identity"
	"github.com/bizline/backoffice/internal/domain/businessline"
	"github.com/bizline/backoffice/internal/domain/identity"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// admin performs bootstrap tasks against the application services
type admin struct {
	lines       businessline.Repository
	users       identity.UserRepository
	lineService *blapp.BusinessLineService
	userService *identityapp.UserService
}

type seedOptions struct {
	LineCode string
	LineName string
	Username string
	Password string
}

type seedResult struct {
	LineID      uuid.UUID
	LineCreated bool
	UserID      uuid.UUID
	UserCreated bool
}

// seed makes sure the business line and an administrator assigned to it exist.
// Running it again changes nothing.
func (a *admin) seed(ctx context.Context, opts seedOptions) (*seedResult, error) {
	var res seedResult

	code := shared.NormalizeCode(opts.LineCode)
	line, err := a.lines.FindByCode(ctx, code)
	switch {
	case err == nil:
		res.LineID = line.ID
	case errors.Is(err, shared.ErrNotFound):
		name := opts.LineName
		if name == "" {
			name = code
		}
		created, err := a.lineService.Create(ctx, blapp.CreateBusinessLineRequest{Code: code, Name: name})
		if err != nil {
			return nil, fmt.Errorf("creating business line %s: %w", code, err)
		}
		res.LineID, res.LineCreated = created.ID, true
	default:
		return nil, fmt.Errorf("looking up business line %s: %w", code, err)
	}

	username := strings.ToLower(strings.TrimSpace(opts.Username))
	user, err := a.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		res.UserID = user.ID
		if !slices.Contains(user.BusinessLineIDs, res.LineID) {
			lines := append(slices.Clone(user.BusinessLineIDs), res.LineID)
			if _, err := a.userService.AssignBusinessLines(ctx, user.ID, identityapp.AssignBusinessLinesRequest{BusinessLineIDs: lines}); err != nil {
				return nil, fmt.Errorf("assigning %s to %s: %w", code, username, err)
			}
		}
	case errors.Is(err, shared.ErrNotFound):
		created, err := a.userService.Create(ctx, identityapp.CreateUserRequest{
			Username:        username,
			Password:        opts.Password,
			DisplayName:     "Administrator",
			Role:            identity.RoleAdmin.String(),
			BusinessLineIDs: []uuid.UUID{res.LineID},
		})
		if err != nil {
			return nil, fmt.Errorf("creating user %s: %w", username, err)
		}
		res.UserID, res.UserCreated = created.ID, true
	default:
		return nil, fmt.Errorf("looking up user %s: %w", username, err)
	}

	return &res, nil
}

// resetPassword sets a new password for the named user
func (a *admin) resetPassword(ctx context.Context, username, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	user, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("looking up user %s: %w", username, err)
	}
	return a.userService.ResetPassword(ctx, user.ID, identityapp.ResetPasswordRequest{Password: password})
}
