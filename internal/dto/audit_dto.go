package dto

import (
	"time"

	"github.com/noah-isme/campushub-api/internal/models"
)

// AuditLogResponse is the public view of a ledger entry.
type AuditLogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
}

// NewAuditLogResponseSlice maps ledger entries, keeping their order.
func NewAuditLogResponseSlice(entries []models.AuditLogEntry) []AuditLogResponse {
	responses := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, AuditLogResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			UserName:  entry.UserName,
			Action:    entry.Action,
			Details:   entry.Details,
			Timestamp: entry.Timestamp,
			IP:        entry.SourceAddress,
		})
	}
	return responses
}
