package handlers

import (
	"net/http"

	"courtside/models"
	"courtside/services/user"

	"github.com/gin-gonic/gin"
)

// UserHandler serves end-user account endpoints.
type UserHandler struct {
	Users user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Users: svc}
}

// RegisterUser handles POST /api/users/register.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var reg models.UserRegistration
	if err := c.ShouldBindJSON(&reg); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var upd models.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Users.Update(c.Request.Context(), callerID(c), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.Users.Delete(c.Request.Context(), callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// MyBookings handles GET /api/users/me/bookings.
func (h *UserHandler) MyBookings(c *gin.Context) {
	bookings, err := h.Users.Bookings(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
