package businessline

import (
	"time"

	"github.com/bizline/backoffice/internal/domain/businessline"
	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateBusinessLineRequest represents a request to create a business line
type CreateBusinessLineRequest struct {
	Code        string `json:"code" binding:"required,code"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateBusinessLineRequest represents a request to update a business line
type UpdateBusinessLineRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// BusinessLineListFilter represents the query parameters of the list endpoint
type BusinessLineListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BusinessLineResponse represents a business line in API responses
type BusinessLineResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DependencyReport lists the records that block a plain delete
type DependencyReport struct {
	BusinessLineID uuid.UUID           `json:"business_line_id"`
	Dependencies   shared.Dependencies `json:"dependencies"`
	Total          int64               `json:"total"`
	CanDelete      bool                `json:"can_delete"`
}

// DeleteResult describes what a delete removed
type DeleteResult struct {
	BusinessLineID uuid.UUID           `json:"business_line_id"`
	Forced         bool                `json:"forced"`
	Removed        shared.Dependencies `json:"removed"`
}

// ToBusinessLineResponse converts a domain BusinessLine to BusinessLineResponse
func ToBusinessLineResponse(b *businessline.BusinessLine) BusinessLineResponse {
	return BusinessLineResponse{
		ID:          b.ID,
		Code:        b.Code,
		Name:        b.Name,
		Description: b.Description,
		Status:      string(b.Status),
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToBusinessLineResponses converts a slice of domain BusinessLines
func ToBusinessLineResponses(lines []businessline.BusinessLine) []BusinessLineResponse {
	out := make([]BusinessLineResponse, len(lines))
	for i := range lines {
		out[i] = ToBusinessLineResponse(&lines[i])
	}
	return out
}

func newDependencyReport(id uuid.UUID, deps shared.Dependencies) *DependencyReport {
	if deps == nil {
		deps = shared.Dependencies{}
	}
	return &DependencyReport{
		BusinessLineID: id,
		Dependencies:   deps,
		Total:          deps.Total(),
		CanDelete:      !deps.HasAny(),
	}
}
