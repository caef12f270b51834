package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/repository"
	"github.com/noah-isme/campushub-api/internal/store"
)

type testEnv struct {
	store   *store.Store
	backend repository.RecordRepository
	ledger  *AuditLedger
	vault   *CredentialVault
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Record{}))

	backend := repository.NewRecordRepository(db)
	s := store.New(backend)
	return testEnv{
		store:   s,
		backend: backend,
		ledger:  NewAuditLedger(s, AuditLedgerConfig{}, nil, zerolog.Nop()),
		vault:   NewCredentialVault(s, bcrypt.MinCost),
	}
}

func (e testEnv) seedUsers(t *testing.T, users ...models.User) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), e.store, store.KeyUsers, users))
}

func (e testEnv) seedCourses(t *testing.T, courses ...models.Course) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), e.store, store.KeyCourses, courses))
}

func (e testEnv) auditLog(t *testing.T) []models.AuditLogEntry {
	t.Helper()
	entries, err := e.ledger.List(context.Background())
	require.NoError(t, err)
	return entries
}

func (e testEnv) courseByID(t *testing.T, id string) models.Course {
	t.Helper()
	courses, err := store.Load[models.Course](context.Background(), e.store, store.KeyCourses)
	require.NoError(t, err)
	for _, course := range courses {
		if course.ID == id {
			return course
		}
	}
	t.Fatalf("course %s not stored", id)
	return models.Course{}
}

func actionsOf(entries []models.AuditLogEntry) []string {
	actions := make([]string, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}
