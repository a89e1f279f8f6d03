package handlers

import (
	"context"
	"net/http"

	"courtside/services/billing"
	"courtside/services/user"

	"github.com/gin-gonic/gin"
)

// BillingRunner runs one billing pass.
type BillingRunner interface {
	Run(ctx context.Context) (*billing.RunReport, error)
}

// EmailSyncer reconciles stored user emails with the identity provider.
type EmailSyncer interface {
	SyncEmails(ctx context.Context) (*user.SyncReport, error)
}

// AdminHandler exposes the scheduled jobs for manual runs.
type AdminHandler struct {
	Billing BillingRunner
	Emails  EmailSyncer
}

func NewAdminHandler(b BillingRunner, e EmailSyncer) *AdminHandler {
	return &AdminHandler{Billing: b, Emails: e}
}

// RunBilling handles POST /api/admin/billing/run.
func (h *AdminHandler) RunBilling(c *gin.Context) {
	report, err := h.Billing.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SyncEmails handles POST /api/admin/users/sync-emails.
func (h *AdminHandler) SyncEmails(c *gin.Context) {
	report, err := h.Emails.SyncEmails(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
