package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"courtside/models"
	"courtside/services/availability"
	"courtside/services/listing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHeader carries the browsing session whose last query is remembered.
const SessionHeader = "X-Session-ID"

// ListingHandler serves public listing queries and partner listing management.
type ListingHandler struct {
	Listings listing.ListingService
}

func NewListingHandler(svc listing.ListingService) *ListingHandler {
	return &ListingHandler{Listings: svc}
}

func sessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	return c.Query("sessionId")
}

func optionalInt(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a whole number", key)
	}
	return &v, nil
}

// criteriaFromQuery reads filters from the query string. Categories may be
// repeated or comma-separated.
func criteriaFromQuery(c *gin.Context) (listing.Criteria, error) {
	crit := listing.Criteria{
		Sport:   c.Query("sport"),
		Emirate: c.Query("emirate"),
		City:    c.Query("city"),
	}
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		day, err := availability.ParseDay(raw, nil)
		if err != nil {
			return crit, err
		}
		crit.Date = availability.FormatDay(day)
	}
	var err error
	if crit.MinPrice, err = optionalInt(c, "minPrice"); err != nil {
		return crit, err
	}
	if crit.MaxPrice, err = optionalInt(c, "maxPrice"); err != nil {
		return crit, err
	}
	for _, v := range c.QueryArray("categories") {
		for _, cat := range strings.Split(v, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				crit.Categories = append(crit.Categories, cat)
			}
		}
	}
	return crit, nil
}

// QueryListings handles GET /api/listings.
func (h *ListingHandler) QueryListings(c *gin.Context) {
	crit, err := criteriaFromQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Listings.Query(c.Request.Context(), sessionID(c), crit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SearchListings handles GET /api/listings/search?q=.
func (h *ListingHandler) SearchListings(c *gin.Context) {
	res, err := h.Listings.Search(c.Request.Context(), sessionID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetListing handles GET /api/listings/:id.
func (h *ListingHandler) GetListing(c *gin.Context) {
	l, err := h.Listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// CreateListing handles POST /api/partners/me/listings.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var input models.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	l, err := h.Listings.Create(c.Request.Context(), callerID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Listing created", zap.String("listingID", l.ID), zap.String("partnerID", l.PartnerID))
	c.JSON(http.StatusCreated, l)
}

// UpdateListing handles PUT /api/partners/me/listings/:id.
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	var input models.ListingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	l, err := h.Listings.Update(c.Request.Context(), callerID(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// DeleteListing handles DELETE /api/partners/me/listings/:id.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	if err := h.Listings.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}

// PartnerListings handles GET /api/partners/me/listings.
func (h *ListingHandler) PartnerListings(c *gin.Context) {
	ls, err := h.Listings.ListByPartner(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ls)
}

// PartnerBookings handles GET /api/partners/me/bookings.
func (h *ListingHandler) PartnerBookings(c *gin.Context) {
	slots, err := h.Listings.PartnerBookings(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
