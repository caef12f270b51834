package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/store"
)

func newCourseFixture(id string, capacity, enrolled int, active bool) models.Course {
	return models.Course{
		ID:            id,
		Code:          "C-" + id,
		Title:         "Course " + id,
		Credits:       3,
		Department:    "Computer Science",
		Capacity:      capacity,
		EnrolledCount: enrolled,
		IsActive:      active,
	}
}

func newCourseServiceForTest(t *testing.T) (CourseService, testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewCourseService(env.store, env.ledger, testValidator(), zerolog.Nop()), env
}

func TestCourseServiceCapacityScenario(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t, newCourseFixture("c1", 1, 0, true))
	ctx := context.Background()

	require.NoError(t, svc.Enroll(ctx, "c1", "s1"))

	err := svc.Enroll(ctx, "c1", "s2")
	require.ErrorIs(t, err, ErrCourseFull)
	require.Equal(t, store.KindCapacityExceeded, store.KindOf(err))
	require.Equal(t, "Course is full", store.MessageOf(err))
	require.Equal(t, models.ActionEnrollFailed, env.auditLog(t)[0].Action)
	require.Equal(t, "Course C-c1 is full", env.auditLog(t)[0].Details)

	require.NoError(t, svc.Drop(ctx, "c1", "s1"))
	require.NoError(t, svc.Enroll(ctx, "c1", "s2"))

	course := env.courseByID(t, "c1")
	require.Equal(t, 1, course.EnrolledCount)

	enrollments, err := svc.ListEnrollments(ctx)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	require.Equal(t, "s2", enrollments[0].StudentID)

	require.Equal(t, []string{
		models.ActionEnroll,
		models.ActionDropCourse,
		models.ActionEnrollFailed,
		models.ActionEnroll,
	}, actionsOf(env.auditLog(t)))
}

func TestCourseServiceEnrollRejections(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t,
		newCourseFixture("open", 10, 0, true),
		newCourseFixture("archived", 10, 0, false),
	)
	ctx := context.Background()

	err := svc.Enroll(ctx, "missing", "s1")
	require.ErrorIs(t, err, ErrCourseNotFound)
	require.Equal(t, store.KindNotFound, store.KindOf(err))

	err = svc.Enroll(ctx, "archived", "s1")
	require.ErrorIs(t, err, ErrCourseInactive)
	require.Equal(t, store.KindInvalidState, store.KindOf(err))

	require.NoError(t, svc.Enroll(ctx, "open", "s1"))
	err = svc.Enroll(ctx, "open", "s1")
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
	require.Equal(t, store.KindConflict, store.KindOf(err))

	require.Equal(t, 1, env.courseByID(t, "open").EnrolledCount)
	require.Equal(t, 0, env.courseByID(t, "archived").EnrolledCount)
	require.Equal(t, []string{models.ActionEnroll}, actionsOf(env.auditLog(t)), "rejections other than full are not audited")
}

func TestCourseServiceFullCheckedBeforeDuplicate(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t, newCourseFixture("c1", 1, 0, true))
	ctx := context.Background()

	require.NoError(t, svc.Enroll(ctx, "c1", "s1"))
	require.ErrorIs(t, svc.Enroll(ctx, "c1", "s1"), ErrCourseFull)
}

func TestCourseServiceEnrollDropInvariants(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t,
		newCourseFixture("a", 2, 0, true),
		newCourseFixture("b", 3, 0, true),
	)
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	courseIDs := []string{"a", "b", "missing"}
	for i := 0; i < 200; i++ {
		courseID := courseIDs[rng.Intn(len(courseIDs))]
		studentID := fmt.Sprintf("s%d", rng.Intn(5))
		if rng.Intn(2) == 0 {
			err := svc.Enroll(ctx, courseID, studentID)
			if err != nil {
				require.NotEmpty(t, store.KindOf(err), "business failures are typed: %v", err)
			}
		} else {
			require.NoError(t, svc.Drop(ctx, courseID, studentID))
		}

		courses, err := svc.List(ctx, true)
		require.NoError(t, err)
		enrollments, err := svc.ListEnrollments(ctx)
		require.NoError(t, err)

		pairs := make(map[string]struct{})
		perCourse := make(map[string]int)
		for _, enrollment := range enrollments {
			pair := enrollment.CourseID + "|" + enrollment.StudentID
			_, dup := pairs[pair]
			require.False(t, dup, "duplicate enrollment %s", pair)
			pairs[pair] = struct{}{}
			perCourse[enrollment.CourseID]++
		}
		for _, course := range courses {
			require.GreaterOrEqual(t, course.EnrolledCount, 0)
			require.LessOrEqual(t, course.EnrolledCount, course.Capacity)
			require.Equal(t, perCourse[course.ID], course.EnrolledCount)
		}
	}
}

func TestCourseServiceDropNotEnrolled(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t, newCourseFixture("c1", 10, 0, true), newCourseFixture("c2", 10, 4, true))
	ctx := context.Background()

	require.NoError(t, svc.Drop(ctx, "c1", "s1"))
	require.NoError(t, svc.Drop(ctx, "c2", "s1"))

	require.Equal(t, 0, env.courseByID(t, "c1").EnrolledCount)
	require.Equal(t, 4, env.courseByID(t, "c2").EnrolledCount)

	entries := env.auditLog(t)
	require.Equal(t, []string{models.ActionDropCourse, models.ActionDropCourse}, actionsOf(entries))
	require.Equal(t, "Dropped course ID c2", entries[0].Details)
}

func TestCourseServiceSoftDeleteIdempotent(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t, newCourseFixture("c1", 10, 0, true))
	ctx := context.Background()
	require.NoError(t, svc.Enroll(ctx, "c1", "s1"))

	require.NoError(t, svc.SoftDelete(ctx, "c1", "admin"))
	first := env.courseByID(t, "c1")
	require.NoError(t, svc.SoftDelete(ctx, "c1", "admin"))
	second := env.courseByID(t, "c1")

	require.Equal(t, first, second)
	require.False(t, second.IsActive)
	require.Equal(t, 1, second.EnrolledCount)

	entries := env.auditLog(t)
	require.Equal(t, models.ActionDeleteCourse, entries[0].Action)
	require.Equal(t, "Soft deleted course ID c1", entries[0].Details)

	err := svc.SoftDelete(ctx, "missing", "admin")
	require.ErrorIs(t, err, ErrCourseNotFound)
	require.Len(t, env.auditLog(t), len(entries))
}

func TestCourseServiceListFiltersArchived(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t,
		newCourseFixture("c1", 10, 0, true),
		newCourseFixture("c2", 10, 0, false),
		newCourseFixture("c3", 10, 0, true),
	)
	ctx := context.Background()

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, course := range active {
		require.True(t, course.IsActive)
	}

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Equal(t, []string{"c1", "c2", "c3"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestCourseServiceArchivedCourseStaysInStudentSchedule(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t, newCourseFixture("c1", 10, 0, true), newCourseFixture("c2", 10, 0, true))
	ctx := context.Background()

	require.NoError(t, svc.Enroll(ctx, "c1", "s1"))
	require.NoError(t, svc.Enroll(ctx, "c2", "s2"))
	require.NoError(t, svc.SoftDelete(ctx, "c1", "admin"))

	courses, err := svc.ListForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "c1", courses[0].ID)
	require.False(t, courses[0].IsActive)

	none, err := svc.ListForStudent(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestCourseServiceSaveAllGuards(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t, newCourseFixture("c1", 10, 3, true), newCourseFixture("c2", 10, 0, false))
	ctx := context.Background()

	cases := []struct {
		name    string
		courses []models.Course
		want    error
	}{
		{
			name:    "removes a course",
			courses: []models.Course{newCourseFixture("c1", 10, 3, true)},
			want:    ErrCourseRemoved,
		},
		{
			name:    "reactivates archived course",
			courses: []models.Course{newCourseFixture("c1", 10, 3, true), newCourseFixture("c2", 10, 0, true)},
			want:    ErrCourseReactivated,
		},
		{
			name:    "duplicate ids",
			courses: []models.Course{newCourseFixture("c1", 10, 3, true), newCourseFixture("c1", 10, 3, true), newCourseFixture("c2", 10, 0, false)},
			want:    ErrDuplicateCourseID,
		},
		{
			name:    "capacity below enrolled",
			courses: []models.Course{newCourseFixture("c1", 2, 3, true), newCourseFixture("c2", 10, 0, false)},
			want:    ErrCourseOverCapacity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.SaveAll(ctx, tc.courses, "admin", models.ActionUpdateCourse)
			require.ErrorIs(t, err, tc.want)
		})
	}

	require.Empty(t, env.auditLog(t), "rejected replacements are not audited")
	require.Equal(t, 10, env.courseByID(t, "c1").Capacity)
}

func TestCourseServiceSaveAllCarriesCounters(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t, newCourseFixture("c1", 10, 3, true))
	ctx := context.Background()

	edited := newCourseFixture("c1", 12, 0, true)
	edited.Title = "Renamed"
	added := newCourseFixture("c9", 5, 2, true)

	require.NoError(t, svc.SaveAll(ctx, []models.Course{edited, added}, "admin", models.ActionCreateCourse))

	c1 := env.courseByID(t, "c1")
	require.Equal(t, "Renamed", c1.Title)
	require.Equal(t, 12, c1.Capacity)
	require.Equal(t, 3, c1.EnrolledCount)
	require.Equal(t, 0, env.courseByID(t, "c9").EnrolledCount, "new courses have no enrollments behind them")

	entries := env.auditLog(t)
	require.Len(t, entries, 1)
	require.Equal(t, models.ActionCreateCourse, entries[0].Action)
	require.Equal(t, "Modified course list", entries[0].Details)
}

func TestCourseServiceSaveAllStripsMarkup(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	env.seedCourses(t, newCourseFixture("c1", 10, 0, true))

	edited := newCourseFixture("c1", 10, 0, true)
	edited.Description = "<script>alert(1)</script>Hello"
	added := newCourseFixture("c2", 10, 0, true)
	added.Description = "<b>Intro</b> to systems"

	require.NoError(t, svc.SaveAll(context.Background(), []models.Course{edited, added}, "admin", models.ActionUpdateCourse))

	require.Equal(t, "Hello", env.courseByID(t, "c1").Description)
	require.Equal(t, "Intro to systems", env.courseByID(t, "c2").Description)
	require.Equal(t, "<script>alert(1)</script>Hello", edited.Description, "caller slice is left untouched")
}

func TestCourseServiceCreateAndUpdate(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "admin", dto.CourseCreateRequest{
		Code:        "PHY-110",
		Title:       "Mechanics",
		Description: "<script>alert(1)</script>Forces and motion",
		Credits:     4,
		Department:  "Physics",
		Capacity:    25,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.True(t, created.IsActive)
	require.Equal(t, 0, created.EnrolledCount)
	require.Equal(t, "Forces and motion", created.Description)

	capacity := 30
	title := "Classical Mechanics"
	updated, err := svc.Update(ctx, "admin", created.ID, dto.CourseUpdateRequest{Title: &title, Capacity: &capacity})
	require.NoError(t, err)
	require.Equal(t, "Classical Mechanics", updated.Title)
	require.Equal(t, 30, updated.Capacity)
	require.Equal(t, "PHY-110", updated.Code)

	_, err = svc.Update(ctx, "admin", "missing", dto.CourseUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.Create(ctx, "admin", dto.CourseCreateRequest{Title: "No code", Department: "Physics"})
	require.Error(t, err)
	require.Empty(t, store.KindOf(err))

	require.Equal(t, []string{models.ActionUpdateCourse, models.ActionCreateCourse}, actionsOf(env.auditLog(t)))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, got)
}

func TestCourseServiceCorruptCollection(t *testing.T) {
	svc, env := newCourseServiceForTest(t)
	require.NoError(t, env.backend.Put(context.Background(), string(store.KeyCourses), []byte("{not json")))

	_, err := svc.List(context.Background(), true)
	require.Error(t, err)
	require.Equal(t, store.KindCorruptState, store.KindOf(err))

	err = svc.Enroll(context.Background(), "c1", "s1")
	require.Equal(t, store.KindCorruptState, store.KindOf(err))
}
