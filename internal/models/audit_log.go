package models

import "time"

// Audit actions recorded by the store.
const (
	ActionRegister     = "REGISTER"
	ActionLogin        = "LOGIN"
	ActionLogout       = "LOGOUT"
	ActionCreateCourse = "CREATE_COURSE"
	ActionUpdateCourse = "UPDATE_COURSE"
	ActionDeleteCourse = "DELETE_COURSE"
	ActionEnroll       = "ENROLL"
	ActionEnrollFailed = "ENROLL_FAILED"
	ActionDropCourse   = "DROP_COURSE"
	ActionSaveEvents   = "SAVE_EVENTS"
	ActionCreateEvent  = "CREATE_EVENT"
	ActionUpdateEvent  = "UPDATE_EVENT"
	ActionDeleteEvent  = "DELETE_EVENT"
)

const (
	// UnknownActorName is recorded when the actor no longer resolves.
	UnknownActorName = "Unknown"
	// DefaultSourceAddress stands in for the client address.
	DefaultSourceAddress = "127.0.0.1"
)

// AuditLogEntry is an immutable record of a sensitive action. UserName is a
// snapshot of the actor's name at write time.
type AuditLogEntry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	UserName      string    `json:"userName"`
	Action        string    `json:"action"`
	Details       string    `json:"details"`
	Timestamp     time.Time `json:"timestamp"`
	SourceAddress string    `json:"ip"`
}
