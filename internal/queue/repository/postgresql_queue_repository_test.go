package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

func TestPostgreSQLQueueRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueRepository(db)
		queue := &queueDomain.Queue{Name: "q1", IsActive: true, CreatedAt: time.Now().UTC()}

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO queues")).
			WithArgs("q1", "", true, queue.CreatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

		require.NoError(t, repo.Create(ctx, queue))
		assert.Equal(t, int64(42), queue.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateName", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO queues")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &queueDomain.Queue{Name: "q1"})
		assert.ErrorIs(t, err, queueDomain.ErrDuplicateQueueName)
	})
}

func TestPostgreSQLQueueRepository_GetByName(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueRepository(db)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("FROM queues WHERE name = $1")).
			WithArgs("q1").
			WillReturnRows(sqlmock.NewRows(queueColumnNames).AddRow(int64(1), "q1", "desc", false, now))

		queue, err := repo.GetByName(ctx, "q1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), queue.ID)
		assert.Equal(t, "desc", queue.Description)
		assert.False(t, queue.IsActive)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM queues WHERE name = $1")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(queueColumnNames))

		_, err := repo.GetByName(ctx, "missing")
		assert.ErrorIs(t, err, queueDomain.ErrQueueNotFound)
	})
}

func TestPostgreSQLQueueRepository_ToggleActive(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostgreSQLQueueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE queues SET is_active = NOT is_active")).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows(queueColumnNames).AddRow(int64(1), "q1", "", false, time.Now()))

	queue, err := repo.ToggleActive(ctx, "q1")
	require.NoError(t, err)
	assert.False(t, queue.IsActive)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE queues SET is_active = NOT is_active")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(queueColumnNames))

	_, err = repo.ToggleActive(ctx, "missing")
	assert.ErrorIs(t, err, queueDomain.ErrQueueNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLQueueRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostgreSQLQueueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM queues WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM queues WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(ctx, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 2), queueDomain.ErrQueueNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLQueueItemRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	item := queueDomain.NewQueueItem(uuid.New(), 1, map[string]any{"x": 1}, 0, 3, now)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueItemRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO queue_items")).
			WithArgs(item.ID, int64(1), []byte(`{"x":1}`), 0, "PENDING", 0, 3,
				nil, nil, nil, nil, nil, now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, item))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_IDConflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueItemRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO queue_items")).
			WillReturnError(&pq.Error{Code: "23505"})

		assert.ErrorIs(t, repo.Create(ctx, item), queueDomain.ErrItemIDConflict)
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueItemRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO queue_items")).
			WillReturnError(errors.New("connection reset"))

		err := repo.Create(ctx, item)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, queueDomain.ErrItemIDConflict)
	})
}

func TestPostgreSQLQueueItemRepository_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueItemRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM queue_items WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(itemColumnNames).AddRow(pendingItemRow(id.String(), 1, 5, now)...))

		item, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, item.ID)
		assert.Equal(t, queueDomain.StatusPending, item.Status)
		assert.Equal(t, 5, item.Priority)
		assert.EqualValues(t, 1, item.Payload["x"])
		assert.Nil(t, item.LockedBy)
	})

	t.Run("ForUpdate_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueItemRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 FOR UPDATE")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(itemColumnNames))

		_, err := repo.GetForUpdate(ctx, id)
		assert.ErrorIs(t, err, queueDomain.ErrItemNotFound)
	})
}

func TestPostgreSQLQueueItemRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	item := queueDomain.NewQueueItem(uuid.New(), 1, nil, 0, 3, now)
	item.MarkRunning("w1", now)
	require.NoError(t, item.MarkSuccess(now))

	db, mock := newMockDB(t)
	repo := NewPostgreSQLQueueItemRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE queue_items")).
		WithArgs("SUCCESS", 0, nil, nil, nil, item.StartedAt, item.FinishedAt, item.UpdatedAt, item.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE queue_items")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Update(ctx, item))
	assert.ErrorIs(t, repo.Update(ctx, item), queueDomain.ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLQueueItemRepository_LeaseNext(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	leaseQuery := regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueItemRepository(db)
		id := uuid.New()

		row := []any{
			id.String(), int64(1), []byte(`{}`), 0, "RUNNING", 1, 3, "timeout",
			"w1", now, now, nil, now, now,
		}
		mock.ExpectQuery(leaseQuery).
			WithArgs("RUNNING", "w1", now, int64(1), "PENDING").
			WillReturnRows(sqlmock.NewRows(itemColumnNames).AddRow(row...))

		item, err := repo.LeaseNext(ctx, 1, "w1", now)
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, id, item.ID)
		assert.Equal(t, queueDomain.StatusRunning, item.Status)
		assert.Equal(t, "w1", *item.LockedBy)
		assert.Equal(t, "timeout", *item.Error)
		assert.Equal(t, 1, item.Attempts)
	})

	t.Run("Empty", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueItemRepository(db)

		mock.ExpectQuery(leaseQuery).WillReturnRows(sqlmock.NewRows(itemColumnNames))

		item, err := repo.LeaseNext(ctx, 1, "w1", now)
		assert.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLQueueItemRepository(db)

		mock.ExpectQuery(leaseQuery).WillReturnError(errors.New("deadlock"))

		_, err := repo.LeaseNext(ctx, 1, "w1", now)
		assert.Error(t, err)
	})
}

func TestPostgreSQLQueueItemRepository_Listing(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	db, mock := newMockDB(t)
	repo := NewPostgreSQLQueueItemRepository(db)

	rows := sqlmock.NewRows(itemColumnNames).
		AddRow(pendingItemRow(uuid.New().String(), 1, 5, now)...).
		AddRow(pendingItemRow(uuid.New().String(), 1, 1, now)...)
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3 OFFSET $4")).
		WithArgs(int64(1), "PENDING", 50, 0).
		WillReturnRows(rows)

	items, err := repo.ListByStatus(ctx, 1, queueDomain.StatusPending, 0, 50)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 5, items[0].Priority)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM queue_items")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	count, err := repo.CountByQueue(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	cutoff := now.Add(-30 * time.Minute)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND locked_at < $2")).
		WithArgs("RUNNING", cutoff, 10).
		WillReturnRows(sqlmock.NewRows(itemColumnNames))

	expired, err := repo.ListExpiredLeases(ctx, cutoff, 10)
	require.NoError(t, err)
	assert.Empty(t, expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}
