package dto

import "github.com/noah-isme/campushub-api/internal/models"

// CourseCreateRequest describes a new catalogue entry.
type CourseCreateRequest struct {
	Code        string `json:"code" validate:"required,max=32"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Credits     int    `json:"credits" validate:"gte=0,lte=30"`
	Department  string `json:"department" validate:"required,max=120"`
	Instructor  string `json:"instructor" validate:"max=120"`
	Schedule    string `json:"schedule" validate:"max=120"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
}

// CourseUpdateRequest patches an existing course. Nil fields are kept.
type CourseUpdateRequest struct {
	Code        *string `json:"code" validate:"omitempty,max=32"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Credits     *int    `json:"credits" validate:"omitempty,gte=0,lte=30"`
	Department  *string `json:"department" validate:"omitempty,max=120"`
	Instructor  *string `json:"instructor" validate:"omitempty,max=120"`
	Schedule    *string `json:"schedule" validate:"omitempty,max=120"`
	Capacity    *int    `json:"capacity" validate:"omitempty,gte=0"`
}

// CourseResponse is the public view of a course.
type CourseResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Credits       int    `json:"credits"`
	Department    string `json:"department"`
	Instructor    string `json:"instructor"`
	Schedule      string `json:"schedule"`
	Capacity      int    `json:"capacity"`
	EnrolledCount int    `json:"enrolled_count"`
	Remaining     int    `json:"remaining"`
	IsActive      bool   `json:"is_active"`
}

// EnrollResponse mirrors the success/message result shown to students.
type EnrollResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewCourseResponse maps a course record to its response.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:            course.ID,
		Code:          course.Code,
		Title:         course.Title,
		Description:   course.Description,
		Credits:       course.Credits,
		Department:    course.Department,
		Instructor:    course.Instructor,
		Schedule:      course.Schedule,
		Capacity:      course.Capacity,
		EnrolledCount: course.EnrolledCount,
		Remaining:     course.Remaining(),
		IsActive:      course.IsActive,
	}
}

// NewCourseResponseSlice maps a slice of courses.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}

// CourseRecord is one entry of a whole-catalogue replacement. EnrolledCount
// only applies to courses that do not exist yet.
type CourseRecord struct {
	ID            string `json:"id" validate:"required,max=64"`
	Code          string `json:"code" validate:"required,max=32"`
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=4000"`
	Credits       int    `json:"credits" validate:"gte=0,lte=30"`
	Department    string `json:"department" validate:"max=120"`
	Instructor    string `json:"instructor" validate:"max=120"`
	Schedule      string `json:"schedule" validate:"max=120"`
	Capacity      int    `json:"capacity" validate:"gte=0"`
	EnrolledCount int    `json:"enrolled_count" validate:"gte=0"`
	IsActive      bool   `json:"is_active"`
}

// CourseReplaceRequest replaces the whole catalogue.
type CourseReplaceRequest struct {
	Courses []CourseRecord `json:"courses" validate:"dive"`
}

// ToModels converts the request into course records.
func (r CourseReplaceRequest) ToModels() []models.Course {
	courses := make([]models.Course, 0, len(r.Courses))
	for _, record := range r.Courses {
		courses = append(courses, models.Course{
			ID:            record.ID,
			Code:          record.Code,
			Title:         record.Title,
			Description:   record.Description,
			Credits:       record.Credits,
			Department:    record.Department,
			Instructor:    record.Instructor,
			Schedule:      record.Schedule,
			Capacity:      record.Capacity,
			EnrolledCount: record.EnrolledCount,
			IsActive:      record.IsActive,
		})
	}
	return courses
}
