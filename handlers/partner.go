package handlers

import (
	"net/http"

	"courtside/models"
	"courtside/services/partner"

	"github.com/gin-gonic/gin"
)

// ReauthHeader carries the short-lived token returned by the reauth endpoint.
const ReauthHeader = "X-Reauth-Token"

// PartnerHandler serves partner account endpoints.
type PartnerHandler struct {
	Partners partner.PartnerService
}

func NewPartnerHandler(svc partner.PartnerService) *PartnerHandler {
	return &PartnerHandler{Partners: svc}
}

// RegisterPartner handles POST /api/partners/register.
func (h *PartnerHandler) RegisterPartner(c *gin.Context) {
	var reg models.PartnerRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Partners.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PartnerHandler) GetMe(c *gin.Context) {
	p, err := h.Partners.Get(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PartnerHandler) UpdateMe(c *gin.Context) {
	var upd models.PartnerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Partners.Update(c.Request.Context(), callerID(c), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PartnerHandler) DeleteMe(c *gin.Context) {
	if err := h.Partners.Delete(c.Request.Context(), callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Partner deleted"})
}

// SetPayment handles PUT /api/partners/me/payment.
func (h *PartnerHandler) SetPayment(c *gin.Context) {
	var card models.CardInput
	if err := c.ShouldBindJSON(&card); err != nil {
		badRequest(c, err)
		return
	}
	payment, err := h.Partners.SetCard(c.Request.Context(), callerID(c), card)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Reauth handles POST /api/partners/me/reauth.
func (h *PartnerHandler) Reauth(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	token, exp, err := h.Partners.Reauth(c.Request.Context(), callerID(c), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": exp})
}

// RevealPayment handles GET /api/partners/me/payment.
func (h *PartnerHandler) RevealPayment(c *gin.Context) {
	card, err := h.Partners.RevealCard(c.Request.Context(), callerID(c), c.GetHeader(ReauthHeader))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, card)
}
