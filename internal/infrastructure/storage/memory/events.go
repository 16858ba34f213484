package memory

import (
	"context"
	"maps"

	appctx "synexpos/internal/core/context"
	"synexpos/internal/domain"
)

// EventLog records domain events in the unit of work, like the outbox table.
type EventLog struct {
	store *Store
}

var _ domain.EventPublisher = (*EventLog)(nil)

func NewEventLog(store *Store) *EventLog {
	return &EventLog{store: store}
}

func (l *EventLog) Publish(ctx context.Context, event domain.Event) error {
	return l.store.view(ctx, func(st *state) error {
		st.events = append(st.events, event)
		return nil
	})
}

// Events returns the committed events in publish order.
func (l *EventLog) Events() []domain.Event {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return append([]domain.Event(nil), l.store.state.events...)
}

// AuditLog implements domain.AuditRecorder.
type AuditLog struct {
	store *Store
}

var (
	_ domain.AuditRecorder = (*AuditLog)(nil)
	_ domain.AuditReader   = (*AuditLog)(nil)
)

func NewAuditLog(store *Store) *AuditLog {
	return &AuditLog{store: store}
}

func (l *AuditLog) Record(ctx context.Context, entityType, entityID string, action domain.AuditAction, changes map[string]any) error {
	rec := domain.AuditRecord{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    maps.Clone(changes),
		UserID:     appctx.GetUserID(ctx),
		At:         l.store.now(),
	}
	return l.store.view(ctx, func(st *state) error {
		st.audits = append(st.audits, rec)
		return nil
	})
}

// Records returns the committed audit entries.
func (l *AuditLog) Records() []domain.AuditRecord {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return append([]domain.AuditRecord(nil), l.store.state.audits...)
}

func (l *AuditLog) History(ctx context.Context, entityType, entityID string, limit int) ([]domain.AuditRecord, error) {
	var out []domain.AuditRecord
	err := l.store.view(ctx, func(st *state) error {
		for i := len(st.audits) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			rec := st.audits[i]
			if rec.EntityType == entityType && rec.EntityID == entityID {
				out = append(out, rec)
			}
		}
		return nil
	})
	return out, err
}
