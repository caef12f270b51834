package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campushub-api/internal/models"
)

type recordingPublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return p.err
}

func TestAuditLedgerPrependsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t, models.User{ID: "1", Name: "Admin User", Email: "admin@campus.edu", Role: models.RoleAdmin})
	ctx := context.Background()

	require.NoError(t, env.ledger.Record(ctx, "1", models.ActionLogin, "User logged in"))
	require.NoError(t, env.ledger.Record(ctx, "1", models.ActionCreateCourse, "Modified course list"))
	require.NoError(t, env.ledger.Record(ctx, "1", models.ActionLogout, "User logged out"))

	entries := env.auditLog(t)
	require.Equal(t, []string{models.ActionLogout, models.ActionCreateCourse, models.ActionLogin}, actionsOf(entries))
	for i := 1; i < len(entries); i++ {
		require.Greater(t, entries[i-1].ID, entries[i].ID, "ids increase with creation time")
		require.False(t, entries[i-1].Timestamp.Before(entries[i].Timestamp))
	}
	require.Equal(t, "Admin User", entries[0].UserName)
	require.Equal(t, models.DefaultSourceAddress, entries[0].SourceAddress)
}

func TestAuditLedgerUnknownActor(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.ledger.Record(context.Background(), "ghost", models.ActionEnroll, "Enrolled in CS-101"))

	entries := env.auditLog(t)
	require.Len(t, entries, 1)
	require.Equal(t, models.UnknownActorName, entries[0].UserName)
	require.Equal(t, "ghost", entries[0].UserID)
}

func TestAuditLedgerSnapshotsNameAtWriteTime(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t, models.User{ID: "7", Name: "Before", Email: "b@campus.edu", Role: models.RoleStudent})
	ctx := context.Background()

	require.NoError(t, env.ledger.Record(ctx, "7", models.ActionLogin, "User logged in"))
	env.seedUsers(t, models.User{ID: "7", Name: "After", Email: "b@campus.edu", Role: models.RoleStudent})
	require.NoError(t, env.ledger.Record(ctx, "7", models.ActionLogout, "User logged out"))

	entries := env.auditLog(t)
	require.Equal(t, "After", entries[0].UserName)
	require.Equal(t, "Before", entries[1].UserName)
}

func TestAuditLedgerPublishesEntries(t *testing.T) {
	env := newTestEnv(t)
	publisher := &recordingPublisher{err: errors.New("nats down")}
	ledger := NewAuditLedger(env.store, AuditLedgerConfig{SourceAddress: "10.0.0.9", Subject: "campushub.audit"}, publisher, zerolog.Nop())

	require.NoError(t, ledger.Record(context.Background(), "1", models.ActionLogin, "User logged in"), "publish failures are not propagated")

	require.Equal(t, []string{"campushub.audit"}, publisher.subjects)
	var published models.AuditLogEntry
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &published))
	require.Equal(t, models.ActionLogin, published.Action)
	require.Equal(t, "10.0.0.9", published.SourceAddress)
}
