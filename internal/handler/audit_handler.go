package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campushub-api/internal/dto"
	"github.com/noah-isme/campushub-api/internal/models"
	"github.com/noah-isme/campushub-api/internal/utils"
)

// AuditReader lists the audit ledger.
type AuditReader interface {
	List(ctx context.Context) ([]models.AuditLogEntry, error)
}

// AuditHandler exposes the audit ledger to administrators.
type AuditHandler struct {
	ledger AuditReader
	logger zerolog.Logger
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(ledger AuditReader, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		ledger: ledger,
		logger: logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register wires audit routes.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	entries, err := h.ledger.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to load audit logs")
	}
	return utils.SendSuccess(c, "audit logs retrieved", dto.NewAuditLogResponseSlice(entries))
}
