package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/models"
)

const courseLoadChartSize = 5

// DashboardService produces the academic overview.
type DashboardService interface {
	GetDashboard(ctx context.Context, viewer models.User) (dto.DashboardResponse, error)
}

type dashboardService struct {
	courses  CourseService
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. cache may be nil.
func NewDashboardService(courses CourseService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		courses:  courses,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, viewer models.User) (dto.DashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:%s:%s", viewer.Role, viewer.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("user_id", viewer.ID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	courses, err := s.courses.List(ctx, false)
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	enrollments, err := s.courses.ListEnrollments(ctx)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := buildDashboard(courses, len(enrollments))
	response.Greeting = "Academic Overview"

	if viewer.Role == models.RoleStudent {
		mine, err := s.courses.ListForStudent(ctx, viewer.ID)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		summary := dto.StudentSummary{Courses: len(mine)}
		for _, course := range mine {
			summary.Credits += course.Credits
		}
		response.Student = &summary
		response.Greeting = fmt.Sprintf("Welcome back, %s!", viewer.Name)
	}

	if s.cache != nil && s.cacheTTL > 0 {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func buildDashboard(courses []models.Course, enrollmentCount int) dto.DashboardResponse {
	totals := dto.DashboardTotals{
		Courses:     len(courses),
		Enrollments: enrollmentCount,
	}
	for _, course := range courses {
		totals.Capacity += course.Capacity
	}
	if totals.Capacity > 0 {
		totals.CapacityUsagePct = int(math.Round(float64(enrollmentCount) / float64(totals.Capacity) * 100))
	}
	totals.AverageClassSize = int(math.Round(float64(enrollmentCount) / float64(max(totals.Courses, 1))))

	loads := make([]dto.CourseLoad, 0, courseLoadChartSize)
	for _, course := range courses {
		if len(loads) == courseLoadChartSize {
			break
		}
		loads = append(loads, dto.CourseLoad{
			Code:      course.Code,
			Enrolled:  course.EnrolledCount,
			Remaining: course.Capacity - course.EnrolledCount,
		})
	}

	departments := make([]dto.DepartmentShare, 0)
	position := make(map[string]int)
	for _, course := range courses {
		idx, ok := position[course.Department]
		if !ok {
			position[course.Department] = len(departments)
			departments = append(departments, dto.DepartmentShare{Department: course.Department, Courses: 1})
			continue
		}
		departments[idx].Courses++
	}

	return dto.DashboardResponse{
		Totals:      totals,
		CourseLoads: loads,
		Departments: departments,
	}
}
