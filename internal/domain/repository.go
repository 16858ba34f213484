// Package domain holds the contracts shared by the domain packages:
// list paging, the domain event publisher and the audit trail.
package domain

import (
	"context"
	"time"
)

// ListFilter contains common paging options for list operations.
type ListFilter struct {
	// Search matches name or code, case-insensitively
	Search string

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50}
}

// Normalize clamps paging values into a safe range.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Event is a domain event recorded in the same unit of work as the change
// that produced it and relayed to subscribers after commit.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       any
}

// Event types.
const (
	EventSaleCompleted = "sale.completed"
	EventStockReceived = "stock.received"
	EventStockMoved    = "stock.moved"
)

// EventPublisher records events. Implementations must write inside the
// caller's unit of work so an aborted sale never emits an event.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// AuditAction names an audited operation.
type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionUpdate  AuditAction = "update"
	AuditActionSale    AuditAction = "sale"
	AuditActionReceive AuditAction = "receive"
	AuditActionMove    AuditAction = "move"
)

// AuditRecorder keeps a durable change history. Like EventPublisher it
// writes inside the caller's unit of work.
type AuditRecorder interface {
	Record(ctx context.Context, entityType, entityID string, action AuditAction, changes map[string]any) error
}

// AuditRecord is one stored audit entry.
type AuditRecord struct {
	EntityType string
	EntityID   string
	Action     AuditAction
	Changes    map[string]any
	UserID     string
	At         time.Time
}

// AuditReader returns the recorded history of one entity, newest first.
type AuditReader interface {
	History(ctx context.Context, entityType, entityID string, limit int) ([]AuditRecord, error)
}
