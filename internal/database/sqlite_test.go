package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/repository"
)

func TestConnectSQLite(t *testing.T) {
	_, err := ConnectSQLite("")
	require.Error(t, err)

	db, err := ConnectSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Record{}))

	records := repository.NewRecordRepository(db)
	require.NoError(t, records.Put(context.Background(), "campushub_events", []byte(`[]`)))

	value, ok, err := records.Get(context.Background(), "campushub_events")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[]`, string(value))
}

func TestConnectorsRejectEmptyTargets(t *testing.T) {
	_, err := ConnectPostgres("")
	require.Error(t, err)

	_, err = ConnectRedis("")
	require.Error(t, err)
}
