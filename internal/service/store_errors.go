package service

import "github.com/noah-isme/campushub-api/internal/store"

// Business-rule failures returned by the record store services. Callers
// compare with errors.Is and show the Message of the wrapped store.Error.
var (
	ErrEmailExists        = store.NewError(store.KindConflict, "Email already exists")
	ErrUserNotFound       = store.NewError(store.KindNotFound, "User not found.")
	ErrInvalidCredentials = store.NewError(store.KindInvalidState, "Invalid credentials.")
	ErrCourseNotFound     = store.NewError(store.KindNotFound, "Course not found")
	ErrCourseInactive     = store.NewError(store.KindInvalidState, "Course is no longer active")
	ErrCourseFull         = store.NewError(store.KindCapacityExceeded, "Course is full")
	ErrAlreadyEnrolled    = store.NewError(store.KindConflict, "Already enrolled in this course")
	ErrDuplicateCourseID  = store.NewError(store.KindConflict, "Course ids must be unique")
	ErrCourseRemoved      = store.NewError(store.KindInvalidState, "Courses cannot be removed, archive them instead")
	ErrCourseReactivated  = store.NewError(store.KindInvalidState, "Archived courses cannot be reactivated")
	ErrCourseOverCapacity = store.NewError(store.KindInvalidState, "Course capacity cannot be below its enrolled count")
	ErrEventNotFound      = store.NewError(store.KindNotFound, "Event not found")
	ErrDuplicateEventID   = store.NewError(store.KindConflict, "Event ids must be unique")
)
