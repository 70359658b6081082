package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var itemColumnNames = []string{
	"id", "queue_id", "payload", "priority", "status", "attempts", "max_attempts", "error",
	"locked_by", "locked_at", "started_at", "finished_at", "created_at", "updated_at",
}

var queueColumnNames = []string{"id", "name", "description", "is_active", "created_at"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func pendingItemRow(id any, queueID int64, priority int, createdAt time.Time) []any {
	return []any{
		id, queueID, []byte(`{"x":1}`), priority, "PENDING", 0, 3, nil,
		nil, nil, nil, nil, createdAt, createdAt,
	}
}
