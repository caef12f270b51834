package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/store"
)

// ErrSeedDisabled indicates seeding is disabled by configuration.
var ErrSeedDisabled = errors.New("seeding is disabled")

// SeedService initialises collections that have never been written with the
// demo catalogue and accounts.
type SeedService interface {
	Seed(ctx context.Context) ([]store.Key, error)
}

type seedAccount struct {
	user     models.User
	password string
}

type seedService struct {
	store   *store.Store
	vault   *CredentialVault
	enabled bool
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(s *store.Store, vault *CredentialVault, enabled bool, logger zerolog.Logger) SeedService {
	return &seedService{
		store:   s,
		vault:   vault,
		enabled: enabled,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

// Seed returns the keys it initialised. Existing collections are left alone.
func (s *seedService) Seed(ctx context.Context) ([]store.Key, error) {
	if !s.enabled {
		return nil, ErrSeedDisabled
	}

	accounts := demoAccounts()
	credentials := make([]models.Credential, 0, len(accounts))
	users := make([]models.User, 0, len(accounts))
	for _, account := range accounts {
		hash, err := s.vault.Hash(account.password)
		if err != nil {
			return nil, err
		}
		users = append(users, account.user)
		credentials = append(credentials, models.Credential{UserID: account.user.ID, Hash: hash})
	}

	var seeded []store.Key
	err := s.store.Do(ctx, func(ctx context.Context) error {
		writers := []struct {
			key   store.Key
			write func() error
		}{
			{store.KeyUsers, func() error {
				if err := store.Save(ctx, s.store, store.KeyUsers, users); err != nil {
					return err
				}
				// Demo passwords only belong to demo accounts.
				return store.Save(ctx, s.store, store.KeyCredentials, credentials)
			}},
			{store.KeyCourses, func() error { return store.Save(ctx, s.store, store.KeyCourses, demoCourses()) }},
			{store.KeyEnrollments, func() error { return store.Save(ctx, s.store, store.KeyEnrollments, []models.Enrollment{}) }},
			{store.KeyEvents, func() error { return store.Save(ctx, s.store, store.KeyEvents, demoEvents()) }},
			{store.KeyAudit, func() error { return store.Save(ctx, s.store, store.KeyAudit, []models.AuditLogEntry{}) }},
		}

		for _, w := range writers {
			exists, err := s.store.Has(ctx, w.key)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := w.write(); err != nil {
				return err
			}
			seeded = append(seeded, w.key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(seeded) > 0 {
		s.logger.Info().Int("collections", len(seeded)).Msg("record store seeded")
	}
	return seeded, nil
}

func demoAccounts() []seedAccount {
	return []seedAccount{
		{user: models.User{ID: "1", Name: "Admin User", Email: "admin@campus.edu", Role: models.RoleAdmin, Avatar: "https://picsum.photos/id/1/200/200"}, password: "admin"},
		{user: models.User{ID: "2", Name: "Dr. Tayyab", Email: "teacher@campus.edu", Role: models.RoleTeacher, Avatar: "https://picsum.photos/id/2/200/200"}, password: "teacher"},
		{user: models.User{ID: "3", Name: "Awais Student", Email: "student@campus.edu", Role: models.RoleStudent, Avatar: "https://picsum.photos/id/3/200/200"}, password: "student"},
	}
}

func demoCourses() []models.Course {
	return []models.Course{
		{
			ID:            "101",
			Code:          "CS-101",
			Title:         "Introduction to Programming",
			Description:   "Fundamental concepts of programming using Python. Topics include variables, loops, and functions.",
			Credits:       3,
			Department:    "Computer Science",
			Instructor:    "Dr. Ali",
			Schedule:      "Mon/Wed 09:00 AM",
			Capacity:      60,
			EnrolledCount: 45,
			IsActive:      true,
		},
		{
			ID:            "102",
			Code:          "MATH-201",
			Title:         "Linear Algebra",
			Description:   "Vector spaces, linear transformations, matrices, systems of linear equations, determinants, and eigenvectors.",
			Credits:       4,
			Department:    "Mathematics",
			Instructor:    "Prof. Sarah",
			Schedule:      "Tue/Thu 11:00 AM",
			Capacity:      40,
			EnrolledCount: 38,
			IsActive:      true,
		},
		{
			ID:            "103",
			Code:          "ENG-105",
			Title:         "Technical Writing",
			Description:   "Development of technical writing skills for engineering and science professionals.",
			Credits:       2,
			Department:    "Humanities",
			Instructor:    "Dr. Emily White",
			Schedule:      "Fri 10:00 AM",
			Capacity:      30,
			EnrolledCount: 12,
			IsActive:      true,
		},
	}
}

func demoEvents() []models.Event {
	return []models.Event{
		{
			ID:              "1",
			Title:           "Tech Symposium 2024",
			Description:     "A gathering of minds to discuss the future of technology and AI on campus.",
			Category:        "Academic",
			Date:            "2024-04-15",
			Location:        "Main Auditorium",
			Capacity:        200,
			RegisteredCount: 45,
			Status:          "Upcoming",
			CreatedBy:       "1",
			Organizer:       "Admin User",
			ImageURL:        "https://picsum.photos/seed/tech/800/400",
		},
	}
}
