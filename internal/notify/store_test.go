package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreFixture(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func requestColumns() []string {
	return []string{"id", "email", "product_id", "variation_id", "attribute", "value", "label", "requested_at", "notified"}
}

func TestStore_Exists(t *testing.T) {
	store, mock := newStoreFixture(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("customer@example.com", int64(42), "attribute_color", "blue").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.Exists(context.Background(), "customer@example.com", 42, "attribute_color", "blue")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Insert_ReturnsID(t *testing.T) {
	store, mock := newStoreFixture(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO variant_notify_requests").
		WithArgs("customer@example.com", int64(42), int64(7), "attribute_color", "blue", "Blue", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))

	id, err := store.Insert(context.Background(), &NotificationRequest{
		Email:       "customer@example.com",
		ProductID:   42,
		VariationID: 7,
		Attribute:   "attribute_color",
		Value:       "blue",
		Label:       "Blue",
		RequestedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Insert_NullVariationWhenUnknown(t *testing.T) {
	store, mock := newStoreFixture(t)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO variant_notify_requests").
		WithArgs("customer@example.com", int64(42), nil, "", "", "", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(102)))

	id, err := store.Insert(context.Background(), &NotificationRequest{
		Email:       "customer@example.com",
		ProductID:   42,
		RequestedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(102), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Insert_WrapsFailure(t *testing.T) {
	store, mock := newStoreFixture(t)

	mock.ExpectQuery("INSERT INTO variant_notify_requests").
		WillReturnError(errors.New("connection reset"))

	_, err := store.Insert(context.Background(), &NotificationRequest{
		Email:       "customer@example.com",
		ProductID:   42,
		RequestedAt: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsertFailed)
}

func TestStore_List_FilterClauses(t *testing.T) {
	tests := []struct {
		name          string
		filter        Filter
		expectedQuery string
	}{
		{name: "all", filter: FilterAll, expectedQuery: "ORDER BY requested_at DESC"},
		{name: "pending", filter: FilterPending, expectedQuery: "WHERE notified = FALSE"},
		{name: "notified", filter: FilterNotified, expectedQuery: "WHERE notified = TRUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newStoreFixture(t)
			now := time.Now().UTC()

			mock.ExpectQuery(tt.expectedQuery).
				WillReturnRows(sqlmock.NewRows(requestColumns()).
					AddRow(int64(2), "b@example.com", int64(42), int64(0), "attribute_color", "blue", "Blue", now, false).
					AddRow(int64(1), "a@example.com", int64(42), int64(7), "attribute_color", "red", "Red", now.Add(-time.Hour), true))

			requests, err := store.List(context.Background(), tt.filter, 0, 0)
			require.NoError(t, err)
			require.Len(t, requests, 2)
			assert.Equal(t, int64(2), requests[0].ID)
			assert.Equal(t, "b@example.com", requests[0].Email)
			assert.Equal(t, int64(0), requests[0].VariationID)
			assert.True(t, requests[1].Notified)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_List_Paged(t *testing.T) {
	store, mock := newStoreFixture(t)
	now := time.Now().UTC()

	mock.ExpectQuery("ORDER BY requested_at DESC LIMIT 50 OFFSET 100").
		WillReturnRows(sqlmock.NewRows(requestColumns()).
			AddRow(int64(3), "c@example.com", int64(42), int64(0), "", "", "", now, false))

	requests, err := store.List(context.Background(), FilterAll, 50, 100)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CountByStatus(t *testing.T) {
	store, mock := newStoreFixture(t)

	mock.ExpectQuery("COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "notified"}).AddRow(5, 3, 2))

	counts, err := store.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Counts{Total: 5, Pending: 3, Notified: 2}, counts)
}

func TestStore_MarkNotified(t *testing.T) {
	store, mock := newStoreFixture(t)

	mock.ExpectExec("UPDATE variant_notify_requests SET notified = TRUE").
		WithArgs(int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.MarkNotified(context.Background(), 101))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_MarkNotified_UnknownID(t *testing.T) {
	store, mock := newStoreFixture(t)

	mock.ExpectExec("UPDATE variant_notify_requests SET notified = TRUE").
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.MarkNotified(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, mock := newStoreFixture(t)

	mock.ExpectExec("DELETE FROM variant_notify_requests").
		WithArgs(int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Delete(context.Background(), 101))
}

func TestStore_Delete_UnknownID(t *testing.T) {
	store, mock := newStoreFixture(t)

	mock.ExpectExec("DELETE FROM variant_notify_requests").
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
