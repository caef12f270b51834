package models

// Credential stores the bcrypt hash of a user's password, kept apart from
// the User collection.
type Credential struct {
	UserID string `json:"userId"`
	Hash   string `json:"hash"`
}
