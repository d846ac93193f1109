package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrQueryFailed  = errors.New("DATABASE_QUERY_FAILED")
	ErrNotFound     = errors.New("REQUEST_NOT_FOUND")
)

// Store persists notification requests in PostgreSQL. The idempotence check
// is a read-then-insert; a race between two identical concurrent
// submissions may rarely insert twice, which is accepted relaxed
// consistency.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Exists reports whether a not-yet-notified row already matches the
// uniqueness key (email, productId, attribute, value).
func (s *Store) Exists(ctx context.Context, email string, productID int64, attribute, value string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM variant_notify_requests
			WHERE email = $1 AND product_id = $2 AND attribute = $3 AND value = $4 AND notified = FALSE
		)`, email, productID, attribute, value).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: duplicate check failed: %v", ErrQueryFailed, err)
	}
	return exists, nil
}

// Insert stores a fresh request and returns its id.
func (s *Store) Insert(ctx context.Context, req *NotificationRequest) (int64, error) {
	var variationID interface{}
	if req.VariationID != 0 {
		variationID = req.VariationID
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO variant_notify_requests (email, product_id, variation_id, attribute, value, label, requested_at, notified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING id`,
		req.Email, req.ProductID, variationID, req.Attribute, req.Value, req.Label, req.RequestedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert failed: %v", ErrInsertFailed, err)
	}
	return id, nil
}

// List returns requests ordered newest first, optionally filtered by
// notified status. A limit of zero or less returns everything.
func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]NotificationRequest, error) {
	query := `
		SELECT id, email, product_id, COALESCE(variation_id, 0), attribute, value, label, requested_at, notified
		FROM variant_notify_requests`
	switch filter {
	case FilterPending:
		query += ` WHERE notified = FALSE`
	case FilterNotified:
		query += ` WHERE notified = TRUE`
	}
	query += ` ORDER BY requested_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	var out []NotificationRequest
	for rows.Next() {
		var r NotificationRequest
		if err := rows.Scan(&r.ID, &r.Email, &r.ProductID, &r.VariationID, &r.Attribute, &r.Value, &r.Label, &r.RequestedAt, &r.Notified); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return out, nil
}

// CountByStatus returns the status summary shown above the admin list.
func (s *Store) CountByStatus(ctx context.Context) (*Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE notified = FALSE),
		       COUNT(*) FILTER (WHERE notified = TRUE)
		FROM variant_notify_requests`).Scan(&c.Total, &c.Pending, &c.Notified)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return &c, nil
}

// MarkNotified flips a request's notified flag. Operator action only.
func (s *Store) MarkNotified(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE variant_notify_requests SET notified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: request %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes a request.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM variant_notify_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: request %d", ErrNotFound, id)
	}
	return nil
}
