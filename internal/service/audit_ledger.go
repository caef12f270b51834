package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/store"
)

// AuditPublisher fans appended entries out to other systems. Publishing is
// best effort; failures never reach the caller of the audited operation.
type AuditPublisher interface {
	Publish(subject string, data []byte) error
}

// AuditLedgerConfig tunes the ledger.
type AuditLedgerConfig struct {
	SourceAddress string
	Subject       string
}

// AuditLedger is the append-only, newest-first log of sensitive actions.
type AuditLedger struct {
	store     *store.Store
	cfg       AuditLedgerConfig
	publisher AuditPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuditLedger constructs the ledger. publisher may be nil.
func NewAuditLedger(s *store.Store, cfg AuditLedgerConfig, publisher AuditPublisher, logger zerolog.Logger) *AuditLedger {
	if strings.TrimSpace(cfg.SourceAddress) == "" {
		cfg.SourceAddress = models.DefaultSourceAddress
	}

	return &AuditLedger{
		store:     s,
		cfg:       cfg,
		publisher: publisher,
		logger:    logger.With().Str("component", "audit_ledger").Logger(),
		now:       time.Now,
	}
}

// Record appends one entry for the actor.
func (l *AuditLedger) Record(ctx context.Context, actorID, action, details string) error {
	return l.store.Do(ctx, func(ctx context.Context) error {
		return l.append(ctx, actorID, action, details)
	})
}

// List returns the whole ledger, newest first.
func (l *AuditLedger) List(ctx context.Context) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	err := l.store.Do(ctx, func(ctx context.Context) error {
		loaded, err := store.Load[models.AuditLogEntry](ctx, l.store, store.KeyAudit)
		entries = loaded
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// append must run inside store.Do.
func (l *AuditLedger) append(ctx context.Context, actorID, action, details string) error {
	users, err := store.Load[models.User](ctx, l.store, store.KeyUsers)
	if err != nil {
		return err
	}

	userName := models.UnknownActorName
	for _, user := range users {
		if user.ID == actorID {
			userName = user.Name
			break
		}
	}

	entries, err := store.Load[models.AuditLogEntry](ctx, l.store, store.KeyAudit)
	if err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate audit id: %w", err)
	}

	entry := models.AuditLogEntry{
		ID:            id.String(),
		UserID:        actorID,
		UserName:      userName,
		Action:        action,
		Details:       details,
		Timestamp:     l.now().UTC(),
		SourceAddress: l.cfg.SourceAddress,
	}

	entries = append([]models.AuditLogEntry{entry}, entries...)
	if err := store.Save(ctx, l.store, store.KeyAudit, entries); err != nil {
		l.logger.Error().Err(err).Str("action", action).Msg("failed to persist audit entry")
		return err
	}

	l.publish(entry)
	return nil
}

func (l *AuditLedger) publish(entry models.AuditLogEntry) {
	if l.publisher == nil || l.cfg.Subject == "" {
		return
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		l.logger.Warn().Err(err).Msg("failed to encode audit entry")
		return
	}

	if err := l.publisher.Publish(l.cfg.Subject, payload); err != nil {
		l.logger.Warn().Err(err).Str("subject", l.cfg.Subject).Msg("failed to publish audit entry")
	}
}
