package handler

import (
	identityapp "github.com/bizline/backoffice/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves login and the caller's own profile
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, userService *identityapp.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Login exchanges credentials for an access token.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Me returns the authenticated user.
// GET /users/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Navigation returns the sections the caller's role may open.
// GET /users/me/navigation
func (h *AuthHandler) Navigation(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	nav, err := h.authService.Navigation(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nav)
}

// ChangePassword changes the caller's own password.
// PUT /users/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req identityapp.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangeOwnPassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
