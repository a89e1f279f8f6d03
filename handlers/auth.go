package handlers

import (
	"errors"
	"net/http"

	"courtside/middleware"
	"courtside/services/identity"
	"courtside/services/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler sends identity-provider action links by email.
type AuthHandler struct {
	Identity      identity.Provider
	Notifications Notifications
}

func NewAuthHandler(idp identity.Provider, n Notifications) *AuthHandler {
	return &AuthHandler{Identity: idp, Notifications: n}
}

const passwordResetAck = "If an account exists for this email, a reset link is on its way."

// PasswordReset handles POST /api/auth/password-reset. Unknown addresses get
// the same answer as known ones.
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	link, err := h.Identity.PasswordResetLink(c.Request.Context(), req.Email)
	if errors.Is(err, identity.ErrAccountMissing) {
		c.JSON(http.StatusOK, gin.H{"message": passwordResetAck})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Notifications.SendAccountLink(c.Request.Context(), req.Email, notification.LinkPasswordReset, link); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": passwordResetAck})
}

// VerifyEmail handles POST /api/auth/verify-email for the signed-in caller.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.Email == "" {
		badRequest(c, errors.New("account has no email address"))
		return
	}
	if p.EmailVerified {
		c.JSON(http.StatusOK, gin.H{"message": "Email already verified"})
		return
	}

	link, err := h.Identity.EmailVerificationLink(c.Request.Context(), p.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Notifications.SendAccountLink(c.Request.Context(), p.Email, notification.LinkEmailVerification, link); err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Verification email queued", zap.String("uid", p.UID))
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}
