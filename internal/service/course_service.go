package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/observability"
	"github.com/noah-isme/campushub-api/internal/store"
)

// CourseService owns the course catalogue and student enrollments.
type CourseService interface {
	List(ctx context.Context, includeArchived bool) ([]models.Course, error)
	Get(ctx context.Context, id string) (models.Course, error)
	SaveAll(ctx context.Context, courses []models.Course, actorID, action string) error
	Create(ctx context.Context, actorID string, payload dto.CourseCreateRequest) (models.Course, error)
	Update(ctx context.Context, actorID, id string, payload dto.CourseUpdateRequest) (models.Course, error)
	SoftDelete(ctx context.Context, courseID, actorID string) error
	Enroll(ctx context.Context, courseID, studentID string) error
	Drop(ctx context.Context, courseID, studentID string) error
	ListForStudent(ctx context.Context, studentID string) ([]models.Course, error)
	ListEnrollments(ctx context.Context) ([]models.Enrollment, error)
}

type courseService struct {
	store     *store.Store
	ledger    *AuditLedger
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCourseService constructs the course and enrollment engine.
func NewCourseService(s *store.Store, ledger *AuditLedger, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		store:     s,
		ledger:    ledger,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("github.com/noah-isme/campushub-api/internal/service/course"),
		logger:    logger.With().Str("component", "course_service").Logger(),
		now:       time.Now,
	}
}

func (s *courseService) List(ctx context.Context, includeArchived bool) ([]models.Course, error) {
	var courses []models.Course
	err := s.store.Do(ctx, func(ctx context.Context) error {
		all, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
		if err != nil {
			return err
		}
		courses = filterCourses(all, includeArchived)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *courseService) Get(ctx context.Context, id string) (models.Course, error) {
	var course models.Course
	err := s.store.Do(ctx, func(ctx context.Context) error {
		courses, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
		if err != nil {
			return err
		}
		idx := indexOfCourse(courses, id)
		if idx < 0 {
			return ErrCourseNotFound
		}
		course = courses[idx]
		return nil
	})
	return course, err
}

// SaveAll replaces the whole catalogue and records one audit entry. The
// replacement must keep every existing course, must not reactivate archived
// courses and must respect capacity. Enrolled counters of existing courses
// belong to the engine and are carried over from the stored collection.
func (s *courseService) SaveAll(ctx context.Context, courses []models.Course, actorID, action string) error {
	return s.store.Do(ctx, func(ctx context.Context) error {
		return s.replaceAll(ctx, courses, actorID, action)
	})
}

func (s *courseService) Create(ctx context.Context, actorID string, payload dto.CourseCreateRequest) (models.Course, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Course{}, err
	}

	course := models.Course{
		ID:          uuid.NewString(),
		Code:        strings.TrimSpace(payload.Code),
		Title:       strings.TrimSpace(payload.Title),
		Description: s.sanitizer.Sanitize(payload.Description),
		Credits:     payload.Credits,
		Department:  strings.TrimSpace(payload.Department),
		Instructor:  strings.TrimSpace(payload.Instructor),
		Schedule:    strings.TrimSpace(payload.Schedule),
		Capacity:    payload.Capacity,
		IsActive:    true,
	}

	err := s.store.Do(ctx, func(ctx context.Context) error {
		courses, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
		if err != nil {
			return err
		}
		return s.replaceAll(ctx, append(courses, course), actorID, models.ActionCreateCourse)
	})
	if err != nil {
		return models.Course{}, err
	}

	s.logger.Info().Str("course_id", course.ID).Str("code", course.Code).Msg("course created")
	return course, nil
}

func (s *courseService) Update(ctx context.Context, actorID, id string, payload dto.CourseUpdateRequest) (models.Course, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Course{}, err
	}

	var updated models.Course
	err := s.store.Do(ctx, func(ctx context.Context) error {
		courses, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
		if err != nil {
			return err
		}
		idx := indexOfCourse(courses, id)
		if idx < 0 {
			return ErrCourseNotFound
		}

		s.applyUpdate(&courses[idx], payload)
		updated = courses[idx]
		return s.replaceAll(ctx, courses, actorID, models.ActionUpdateCourse)
	})
	if err != nil {
		return models.Course{}, err
	}

	s.logger.Info().Str("course_id", id).Msg("course updated")
	return updated, nil
}

func (s *courseService) SoftDelete(ctx context.Context, courseID, actorID string) error {
	err := s.store.Do(ctx, func(ctx context.Context) error {
		courses, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
		if err != nil {
			return err
		}
		idx := indexOfCourse(courses, courseID)
		if idx < 0 {
			return ErrCourseNotFound
		}

		courses[idx].IsActive = false
		if err := store.Save(ctx, s.store, store.KeyCourses, courses); err != nil {
			return err
		}
		return s.ledger.append(ctx, actorID, models.ActionDeleteCourse, fmt.Sprintf("Soft deleted course ID %s", courseID))
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("course_id", courseID).Str("actor_id", actorID).Msg("course archived")
	return nil
}

func (s *courseService) Enroll(ctx context.Context, courseID, studentID string) error {
	ctx, span := s.tracer.Start(ctx, "course.enroll")
	span.SetAttributes(
		attribute.String("course.id", courseID),
		attribute.String("student.id", studentID),
	)
	defer span.End()

	err := s.store.Do(ctx, func(ctx context.Context) error {
		courses, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
		if err != nil {
			return err
		}

		idx := indexOfCourse(courses, courseID)
		if idx < 0 {
			return ErrCourseNotFound
		}
		course := courses[idx]

		if !course.IsActive {
			return ErrCourseInactive
		}

		if course.IsFull() {
			if err := s.ledger.append(ctx, studentID, models.ActionEnrollFailed, fmt.Sprintf("Course %s is full", course.Code)); err != nil {
				return err
			}
			return ErrCourseFull
		}

		enrollments, err := store.Load[models.Enrollment](ctx, s.store, store.KeyEnrollments)
		if err != nil {
			return err
		}
		if indexOfEnrollment(enrollments, courseID, studentID) >= 0 {
			return ErrAlreadyEnrolled
		}

		enrollments = append(enrollments, models.Enrollment{
			ID:         uuid.NewString(),
			CourseID:   courseID,
			StudentID:  studentID,
			EnrolledAt: s.now().UTC(),
		})
		if err := store.Save(ctx, s.store, store.KeyEnrollments, enrollments); err != nil {
			return err
		}

		courses[idx].EnrolledCount++
		if err := store.Save(ctx, s.store, store.KeyCourses, courses); err != nil {
			return err
		}

		return s.ledger.append(ctx, studentID, models.ActionEnroll, fmt.Sprintf("Enrolled in %s", course.Code))
	})

	outcome := enrollOutcome(err)
	observability.EnrollmentOutcomes().WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.String("enroll.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		if store.KindOf(err) == "" {
			s.logger.Error().Err(err).Str("course_id", courseID).Msg("enrollment failed")
		}
		return err
	}

	s.logger.Info().Str("course_id", courseID).Str("student_id", studentID).Msg("student enrolled")
	return nil
}

func (s *courseService) Drop(ctx context.Context, courseID, studentID string) error {
	return s.store.Do(ctx, func(ctx context.Context) error {
		enrollments, err := store.Load[models.Enrollment](ctx, s.store, store.KeyEnrollments)
		if err != nil {
			return err
		}

		kept := make([]models.Enrollment, 0, len(enrollments))
		for _, enrollment := range enrollments {
			if enrollment.CourseID == courseID && enrollment.StudentID == studentID {
				continue
			}
			kept = append(kept, enrollment)
		}
		removed := len(enrollments) - len(kept)

		if removed > 0 {
			if err := store.Save(ctx, s.store, store.KeyEnrollments, kept); err != nil {
				return err
			}

			courses, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
			if err != nil {
				return err
			}
			if idx := indexOfCourse(courses, courseID); idx >= 0 {
				courses[idx].EnrolledCount = max(0, courses[idx].EnrolledCount-removed)
				if err := store.Save(ctx, s.store, store.KeyCourses, courses); err != nil {
					return err
				}
			}
			s.logger.Info().Str("course_id", courseID).Str("student_id", studentID).Msg("student dropped course")
		}

		return s.ledger.append(ctx, studentID, models.ActionDropCourse, fmt.Sprintf("Dropped course ID %s", courseID))
	})
}

// ListForStudent joins the student's enrollments against the full catalogue,
// archived courses included, so past schedules stay visible.
func (s *courseService) ListForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	var result []models.Course
	err := s.store.Do(ctx, func(ctx context.Context) error {
		enrollments, err := store.Load[models.Enrollment](ctx, s.store, store.KeyEnrollments)
		if err != nil {
			return err
		}
		courses, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
		if err != nil {
			return err
		}

		enrolled := make(map[string]struct{})
		for _, enrollment := range enrollments {
			if enrollment.StudentID == studentID {
				enrolled[enrollment.CourseID] = struct{}{}
			}
		}

		result = make([]models.Course, 0, len(enrolled))
		for _, course := range courses {
			if _, ok := enrolled[course.ID]; ok {
				result = append(result, course)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *courseService) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.store.Do(ctx, func(ctx context.Context) error {
		loaded, err := store.Load[models.Enrollment](ctx, s.store, store.KeyEnrollments)
		enrollments = loaded
		return err
	})
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// replaceAll must run inside store.Do.
func (s *courseService) replaceAll(ctx context.Context, replacement []models.Course, actorID, action string) error {
	existing, err := store.Load[models.Course](ctx, s.store, store.KeyCourses)
	if err != nil {
		return err
	}

	sanitized := make([]models.Course, len(replacement))
	for i, course := range replacement {
		course.Description = s.sanitizer.Sanitize(course.Description)
		sanitized[i] = course
	}

	next, err := reconcileCourses(existing, sanitized)
	if err != nil {
		return err
	}

	if err := store.Save(ctx, s.store, store.KeyCourses, next); err != nil {
		return err
	}

	if strings.TrimSpace(action) == "" {
		action = models.ActionUpdateCourse
	}
	return s.ledger.append(ctx, actorID, action, "Modified course list")
}

func (s *courseService) applyUpdate(course *models.Course, payload dto.CourseUpdateRequest) {
	if payload.Code != nil {
		course.Code = strings.TrimSpace(*payload.Code)
	}
	if payload.Title != nil {
		course.Title = strings.TrimSpace(*payload.Title)
	}
	if payload.Description != nil {
		course.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Credits != nil {
		course.Credits = *payload.Credits
	}
	if payload.Department != nil {
		course.Department = strings.TrimSpace(*payload.Department)
	}
	if payload.Instructor != nil {
		course.Instructor = strings.TrimSpace(*payload.Instructor)
	}
	if payload.Schedule != nil {
		course.Schedule = strings.TrimSpace(*payload.Schedule)
	}
	if payload.Capacity != nil {
		course.Capacity = *payload.Capacity
	}
}

// reconcileCourses validates a whole-catalogue replacement against the
// stored catalogue and returns the collection to persist. Courses new to the
// catalogue start with no enrollments.
func reconcileCourses(existing, replacement []models.Course) ([]models.Course, error) {
	stored := make(map[string]models.Course, len(existing))
	for _, course := range existing {
		stored[course.ID] = course
	}

	seen := make(map[string]struct{}, len(replacement))
	next := make([]models.Course, 0, len(replacement))
	for _, course := range replacement {
		if _, dup := seen[course.ID]; dup || strings.TrimSpace(course.ID) == "" {
			return nil, ErrDuplicateCourseID
		}
		seen[course.ID] = struct{}{}

		if previous, ok := stored[course.ID]; ok {
			if !previous.IsActive && course.IsActive {
				return nil, ErrCourseReactivated
			}
			course.EnrolledCount = previous.EnrolledCount
		} else {
			course.EnrolledCount = 0
		}

		if course.Capacity < 0 || course.EnrolledCount < 0 || course.EnrolledCount > course.Capacity {
			return nil, ErrCourseOverCapacity
		}
		next = append(next, course)
	}

	for id := range stored {
		if _, ok := seen[id]; !ok {
			return nil, ErrCourseRemoved
		}
	}

	return next, nil
}

func filterCourses(courses []models.Course, includeArchived bool) []models.Course {
	if includeArchived {
		return courses
	}
	active := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if course.IsActive {
			active = append(active, course)
		}
	}
	return active
}

func indexOfCourse(courses []models.Course, id string) int {
	for i, course := range courses {
		if course.ID == id {
			return i
		}
	}
	return -1
}

func indexOfEnrollment(enrollments []models.Enrollment, courseID, studentID string) int {
	for i, enrollment := range enrollments {
		if enrollment.CourseID == courseID && enrollment.StudentID == studentID {
			return i
		}
	}
	return -1
}

func enrollOutcome(err error) string {
	switch {
	case err == nil:
		return "enrolled"
	case errors.Is(err, ErrCourseFull):
		return "full"
	case errors.Is(err, ErrAlreadyEnrolled):
		return "already_enrolled"
	case errors.Is(err, ErrCourseInactive):
		return "inactive"
	case errors.Is(err, ErrCourseNotFound):
		return "not_found"
	default:
		return "error"
	}
}
