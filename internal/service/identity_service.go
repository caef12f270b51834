package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/store"
)

// IdentityService owns user accounts and the single active session.
type IdentityService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, bool, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	SetSession(ctx context.Context, user models.User) error
	ClearSession(ctx context.Context) error
	GetSession(ctx context.Context) (models.User, bool, error)
}

type identityService struct {
	store     *store.Store
	ledger    *AuditLedger
	vault     *CredentialVault
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewIdentityService constructs the identity registry.
func NewIdentityService(s *store.Store, ledger *AuditLedger, vault *CredentialVault, validate *validator.Validate, logger zerolog.Logger) IdentityService {
	return &identityService{
		store:     s,
		ledger:    ledger,
		vault:     vault,
		validator: validate,
		logger:    logger.With().Str("component", "identity_service").Logger(),
	}
}

func (s *identityService) Register(ctx context.Context, payload dto.RegisterRequest) (models.User, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = normalizeEmail(payload.Email)
	payload.Role = strings.ToUpper(strings.TrimSpace(payload.Role))
	if err := s.validator.Struct(payload); err != nil {
		return models.User{}, err
	}

	hash, err := s.vault.Hash(payload.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:     uuid.NewString(),
		Name:   payload.Name,
		Email:  payload.Email,
		Role:   models.Role(payload.Role),
		Avatar: avatarURL(payload.Name),
	}

	err = s.store.Do(ctx, func(ctx context.Context) error {
		users, err := store.Load[models.User](ctx, s.store, store.KeyUsers)
		if err != nil {
			return err
		}
		if _, found := findUserByEmail(users, user.Email); found {
			return ErrEmailExists
		}

		users = append(users, user)
		if err := store.Save(ctx, s.store, store.KeyUsers, users); err != nil {
			return err
		}
		if err := s.vault.put(ctx, user.ID, hash); err != nil {
			return err
		}

		details := fmt.Sprintf("New user registered: %s as %s", user.Email, user.Role)
		return s.ledger.append(ctx, user.ID, models.ActionRegister, details)
	})
	if err != nil {
		return models.User{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

func (s *identityService) FindByEmail(ctx context.Context, email string) (models.User, bool, error) {
	var (
		user  models.User
		found bool
	)
	err := s.store.Do(ctx, func(ctx context.Context) error {
		users, err := store.Load[models.User](ctx, s.store, store.KeyUsers)
		if err != nil {
			return err
		}
		user, found = findUserByEmail(users, normalizeEmail(email))
		return nil
	})
	return user, found, err
}

func (s *identityService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	err := s.store.Do(ctx, func(ctx context.Context) error {
		users, err := store.Load[models.User](ctx, s.store, store.KeyUsers)
		if err != nil {
			return err
		}

		found := false
		user, found = findUserByEmail(users, normalizeEmail(email))
		if !found {
			return ErrUserNotFound
		}
		if err := s.vault.verify(ctx, user.ID, password); err != nil {
			return err
		}

		return s.openSession(ctx, user)
	})
	if err != nil {
		return models.User{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user authenticated")
	return user, nil
}

func (s *identityService) SetSession(ctx context.Context, user models.User) error {
	return s.store.Do(ctx, func(ctx context.Context) error {
		return s.openSession(ctx, user)
	})
}

func (s *identityService) ClearSession(ctx context.Context) error {
	return s.store.Do(ctx, func(ctx context.Context) error {
		session, ok, err := store.LoadOne[models.User](ctx, s.store, store.KeySession)
		if err != nil {
			return err
		}
		if ok {
			if err := s.ledger.append(ctx, session.ID, models.ActionLogout, "User logged out"); err != nil {
				return err
			}
		}
		return s.store.Remove(ctx, store.KeySession)
	})
}

func (s *identityService) GetSession(ctx context.Context) (models.User, bool, error) {
	var (
		user models.User
		ok   bool
	)
	err := s.store.Do(ctx, func(ctx context.Context) error {
		var err error
		user, ok, err = store.LoadOne[models.User](ctx, s.store, store.KeySession)
		return err
	})
	return user, ok, err
}

func (s *identityService) openSession(ctx context.Context, user models.User) error {
	if err := store.SaveOne(ctx, s.store, store.KeySession, user); err != nil {
		return err
	}
	return s.ledger.append(ctx, user.ID, models.ActionLogin, "User logged in")
}

func findUserByEmail(users []models.User, email string) (models.User, bool) {
	for _, user := range users {
		if normalizeEmail(user.Email) == email {
			return user, true
		}
	}
	return models.User{}, false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func avatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}
