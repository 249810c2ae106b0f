package handler

import (
	"errors"
	"net/http"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/logger"
	"github.com/bizline/backoffice/internal/interfaces/http/dto"
	"github.com/bizline/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeUnauthorized, message)
}

// HandleError converts an error into the error envelope. Domain errors keep
// their message and details; anything else is logged and answered with 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			h.logFailure(c, err)
			c.JSON(status, dto.NewErrorResponseWithRequestID(code, "An unexpected error occurred", requestID))
			return
		}
		if domainErr.Details != nil {
			c.JSON(status, dto.NewErrorResponseWithDetails(code, domainErr.Message, requestID, domainErr.Details))
			return
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	h.logFailure(c, err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}

func (h *BaseHandler) logFailure(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.FromContext(c.Request.Context()).Error("Request failed", zap.Error(err))
}

// BindJSON binds the request body and answers the validation envelope on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters and answers the validation envelope on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// ParamID parses the named path parameter as a UUID
func (h *BaseHandler) ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidInput, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// BusinessLine returns the line resolved by the BusinessLineScope middleware
func (h *BaseHandler) BusinessLine(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetBusinessLineID(c)
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeBusinessLineRequired, "Header "+middleware.BusinessLineHeader+" is required")
		return uuid.Nil, false
	}
	return id, true
}

// CurrentUser returns the authenticated user's id
func (h *BaseHandler) CurrentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// page echoes the normalized paging of a list request
func page(p, size int) (int, int) {
	f := shared.Filter{Page: p, PageSize: size}.Normalize()
	return f.Page, f.PageSize
}
