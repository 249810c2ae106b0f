package handler

import (
	identityapp "github.com/bizline/backoffice/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler serves user administration
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create creates a user.
// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetByID returns one user.
// GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List lists users.
// GET /users
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	p, size := page(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, users, total, p, size)
}

// Update updates a user's profile.
// PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangeRole changes a user's role.
// PUT /users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req identityapp.ChangeRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// AssignBusinessLines replaces the lines a user may work in.
// PUT /users/:id/business-lines
func (h *UserHandler) AssignBusinessLines(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req identityapp.AssignBusinessLinesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.AssignBusinessLines(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Activate reactivates a user.
// POST /users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Deactivate blocks a user from signing in.
// POST /users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	actorID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Deactivate(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetPassword sets a new password for a user.
// PUT /users/:id/password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req identityapp.ResetPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a user.
// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	actorID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
