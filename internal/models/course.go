package models

import "time"

// Course is a catalogue entry. EnrolledCount is a denormalised counter kept
// in step with the Enrollment collection by the enrollment engine.
type Course struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Credits       int    `json:"credits"`
	Department    string `json:"department"`
	Instructor    string `json:"instructor"`
	Schedule      string `json:"schedule"`
	Capacity      int    `json:"capacity"`
	EnrolledCount int    `json:"enrolledCount"`
	IsActive      bool   `json:"isActive"`
}

// IsFull reports whether the course rejects further enrollment.
func (c Course) IsFull() bool {
	return c.EnrolledCount >= c.Capacity
}

// Remaining returns the number of open seats.
func (c Course) Remaining() int {
	if c.EnrolledCount >= c.Capacity {
		return 0
	}
	return c.Capacity - c.EnrolledCount
}

// Enrollment links a student to a course they are currently registered in.
type Enrollment struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	StudentID  string    `json:"studentId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}
