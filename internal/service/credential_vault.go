package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/store"
)

// ErrPasswordTooLong mirrors the bcrypt input limit.
var ErrPasswordTooLong = store.NewError(store.KindInvalidState, "Password is too long")

// CredentialVault keeps salted password hashes apart from User records.
type CredentialVault struct {
	store *store.Store
	cost  int
}

// NewCredentialVault builds a vault hashing with the given bcrypt cost.
// A cost of zero selects bcrypt.DefaultCost.
func NewCredentialVault(s *store.Store, cost int) *CredentialVault {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &CredentialVault{store: s, cost: cost}
}

// Hash derives the stored form of a password.
func (v *CredentialVault) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// put stores or replaces the hash for userID. Must run inside store.Do.
func (v *CredentialVault) put(ctx context.Context, userID, hash string) error {
	credentials, err := store.Load[models.Credential](ctx, v.store, store.KeyCredentials)
	if err != nil {
		return err
	}

	replaced := false
	for i := range credentials {
		if credentials[i].UserID == userID {
			credentials[i].Hash = hash
			replaced = true
			break
		}
	}
	if !replaced {
		credentials = append(credentials, models.Credential{UserID: userID, Hash: hash})
	}

	return store.Save(ctx, v.store, store.KeyCredentials, credentials)
}

// verify checks password against the stored hash. Must run inside store.Do.
func (v *CredentialVault) verify(ctx context.Context, userID, password string) error {
	credentials, err := store.Load[models.Credential](ctx, v.store, store.KeyCredentials)
	if err != nil {
		return err
	}

	for _, credential := range credentials {
		if credential.UserID != userID {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(credential.Hash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrInvalidCredentials
			}
			return fmt.Errorf("verify password: %w", err)
		}
		return nil
	}

	return ErrInvalidCredentials
}
