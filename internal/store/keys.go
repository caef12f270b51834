package store

// Key names a persisted collection.
type Key string

// Persisted collections. Session holds a single object rather than an array.
const (
	KeyUsers       Key = "campushub_users"
	KeyCourses     Key = "campushub_courses"
	KeyEnrollments Key = "campushub_enrollments"
	KeyEvents      Key = "campushub_events"
	KeyAudit       Key = "campushub_audit"
	KeySession     Key = "campushub_session"
	KeyCredentials Key = "campushub_credentials"
)

// Keys lists every collection key in initialisation order.
func Keys() []Key {
	return []Key{KeyUsers, KeyCourses, KeyEnrollments, KeyEvents, KeyAudit, KeySession, KeyCredentials}
}
