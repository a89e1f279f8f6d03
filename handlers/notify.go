package handlers

import (
	"context"
	"net/http"

	"courtside/models"
	"courtside/services/notification"

	"github.com/gin-gonic/gin"
)

// Notifications is the outgoing-mail surface used by handlers.
type Notifications interface {
	SendContact(ctx context.Context, msg models.ContactMessage) error
	SendAccountLink(ctx context.Context, to string, kind notification.LinkKind, link string) error
	EnqueueEmail(ctx context.Context, msg models.EmailPayload) error
}

// MailHandler serves the contact form and the internal email endpoint.
type MailHandler struct {
	Notifications Notifications
}

func NewMailHandler(n Notifications) *MailHandler {
	return &MailHandler{Notifications: n}
}

// Contact handles POST /api/contact.
func (h *MailHandler) Contact(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Notifications.SendContact(c.Request.Context(), msg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Thanks, we'll get back to you soon."})
}

// SendEmail handles POST /api/internal/email.
func (h *MailHandler) SendEmail(c *gin.Context) {
	var msg models.EmailPayload
	if err := c.ShouldBindJSON(&msg); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Notifications.EnqueueEmail(c.Request.Context(), msg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Email queued"})
}
