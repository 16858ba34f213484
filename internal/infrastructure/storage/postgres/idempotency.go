package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"synexpos/internal/core/apperror"
)

type idempotencyStatus string

const (
	idempotencyPending idempotencyStatus = "pending"
	idempotencySuccess idempotencyStatus = "success"
	idempotencyFailed  idempotencyStatus = "failed"
)

// staleAfter is how long a pending key may sit untouched before another
// request may take it over. A checkout never runs that long.
const staleAfter = time.Minute

// IdempotencyReplay is the stored response of a finished checkout.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IdempotencyStore remembers the response of a checkout keyed by the
// client's X-Idempotency-Key, so a retried POST /sales never charges twice.
// Keys are written outside the sale's unit of work.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
}

// NewIdempotencyStore creates a new idempotency store.
func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{txManager: txManager, ttl: ttl}
}

// AcquireKey claims key for one request. It returns (nil, nil) when the
// caller owns the key, the stored response when the checkout already
// finished, and IDEMPOTENCY_CONFLICT while another request holds it.
// Reusing a key for a different user or body is IDEMPOTENCY_MISMATCH.
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*IdempotencyReplay, error) {
	now := time.Now().UTC()

	var (
		storedUser, storedOp, storedHash string
		status                           idempotencyStatus
		updatedAt                        time.Time
		inserted                         bool
		replay                           IdempotencyReplay
	)
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, user_id, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			expires_at = GREATEST(sys_idempotency.expires_at, $7)
		RETURNING user_id, operation, request_hash, status, updated_at,
		          COALESCE(response, ''::bytea), COALESCE(response_status, 0), COALESCE(response_content_type, ''),
		          (xmax = 0) AS inserted
	`, key, userID, operation, idempotencyPending, requestHash, now, now.Add(s.ttl)).Scan(
		&storedUser, &storedOp, &storedHash, &status, &updatedAt,
		&replay.Body, &replay.StatusCode, &replay.ContentType,
		&inserted,
	)
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}

	// xmax is zero only for a row this statement inserted.
	if inserted {
		return nil, nil
	}

	if storedUser != userID || storedOp != operation || storedHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_operation", storedOp).
			WithDetail("request_operation", operation)
	}

	switch status {
	case idempotencySuccess, idempotencyFailed:
		if replay.StatusCode == 0 {
			replay.StatusCode = http.StatusOK
		}
		if replay.ContentType == "" {
			replay.ContentType = "application/json"
		}
		return &replay, nil
	}

	if now.Sub(updatedAt) <= staleAfter {
		return nil, apperror.NewIdempotencyConflict(key)
	}
	return nil, s.reclaim(ctx, key, updatedAt, now)
}

// reclaim takes over a pending key left by a crashed request. Only one of
// several concurrent retries wins; the others see a conflict.
func (s *IdempotencyStore) reclaim(ctx context.Context, key string, seen, now time.Time) error {
	tag, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET updated_at = $1
		WHERE idempotency_key = $2 AND status = $3 AND updated_at = $4
	`, now, key, idempotencyPending, seen)
	if err != nil {
		return fmt.Errorf("reclaim stale key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewIdempotencyConflict(key)
	}
	return nil
}

// CompleteKey stores the successful response for replay.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	return s.finish(ctx, key, idempotencySuccess, statusCode, contentType, body)
}

// FailKey stores an error response, so a retry gets the same answer
// instead of a second attempt at payment.
func (s *IdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	body, err := json.Marshal(response)
	if err != nil {
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return s.finish(ctx, key, idempotencyFailed, statusCode, contentType, body)
}

func (s *IdempotencyStore) finish(ctx context.Context, key string, status idempotencyStatus, statusCode int, contentType string, body []byte) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    response = $2,
		    response_status = $3,
		    response_content_type = $4,
		    updated_at = $5
		WHERE idempotency_key = $6
	`, status, body, statusCode, contentType, time.Now().UTC(), key)
	if err != nil {
		return fmt.Errorf("finish idempotency key: %w", err)
	}
	return nil
}

// CleanupExpired removes expired idempotency records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := s.txManager.GetQuerier(ctx).Exec(ctx,
		`DELETE FROM sys_idempotency WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup idempotency keys: %w", err)
	}
	return tag.RowsAffected(), nil
}
