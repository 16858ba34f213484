package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/internal/domain/catalogs/item"
)

// CreateItemRequest is the request body for adding a catalog item.
type CreateItemRequest struct {
	Code         string          `json:"code" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	UnitPrice    types.Money     `json:"unitPrice"`
	Discount     decimal.Decimal `json:"discount"`
	ReorderLevel int             `json:"reorderLevel"`
}

// ToInput converts DTO to the item service input.
func (r *CreateItemRequest) ToInput() item.CreateInput {
	return item.CreateInput{
		Code:         r.Code,
		Name:         r.Name,
		UnitPrice:    r.UnitPrice,
		Discount:     r.Discount,
		ReorderLevel: r.ReorderLevel,
	}
}

// UpdateItemRequest changes only the fields present in the body.
type UpdateItemRequest struct {
	Name         *string          `json:"name"`
	UnitPrice    *types.Money     `json:"unitPrice"`
	Discount     *decimal.Decimal `json:"discount"`
	ReorderLevel *int             `json:"reorderLevel"`
}

// ToInput converts DTO to the item service input.
func (r *UpdateItemRequest) ToInput() item.UpdateInput {
	return item.UpdateInput{
		Name:         r.Name,
		UnitPrice:    r.UnitPrice,
		Discount:     r.Discount,
		ReorderLevel: r.ReorderLevel,
	}
}

// ItemResponse represents an item in API responses.
type ItemResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	UnitPrice    types.Money     `json:"unitPrice"`
	Discount     decimal.Decimal `json:"discount"`
	ReorderLevel int             `json:"reorderLevel"`
}

// FromItem converts entity to response DTO.
func FromItem(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID(),
		Code:         it.Code().String(),
		Name:         it.Name(),
		UnitPrice:    it.UnitPrice(),
		Discount:     it.Discount(),
		ReorderLevel: it.ReorderLevel(),
	}
}

// FromItems converts a page of items.
func FromItems(items []*item.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FromItem(it))
	}
	return out
}

// HistoryRequest limits the number of returned audit entries.
type HistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// AuditEntryResponse is one change in an item's history.
type AuditEntryResponse struct {
	Action  string         `json:"action"`
	UserID  string         `json:"userId,omitempty"`
	Changes map[string]any `json:"changes,omitempty"`
	At      time.Time      `json:"at"`
}

// FromAuditRecords converts audit history, keeping its order.
func FromAuditRecords(records []domain.AuditRecord) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(records))
	for _, r := range records {
		out = append(out, AuditEntryResponse{
			Action:  string(r.Action),
			UserID:  r.UserID,
			Changes: r.Changes,
			At:      r.At,
		})
	}
	return out
}
