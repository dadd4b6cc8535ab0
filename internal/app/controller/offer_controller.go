package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	apperrors "github.com/zhwaweb/zhwaweb-admin/internal/errors"
)

type OfferController struct {
	offerService service.OfferService
	presenter    *Presenter
}

func NewOfferController(offerService service.OfferService, presenter *Presenter) *OfferController {
	return &OfferController{
		offerService: offerService,
		presenter:    presenter,
	}
}

type OfferRequest struct {
	Title              string    `json:"title" binding:"required,max=100"`
	Description        string    `json:"description"`
	DiscountPercentage *int      `json:"discount_percentage" binding:"required"`
	Image              string    `json:"image" binding:"max=255"`
	ValidUntil         time.Time `json:"valid_until" binding:"required"`
	StoreID            string    `json:"store_id" binding:"required"`
}

type OfferUpdateRequest struct {
	Title              *string    `json:"title" binding:"omitempty,max=100"`
	Description        *string    `json:"description"`
	DiscountPercentage *int       `json:"discount_percentage"`
	Image              *string    `json:"image" binding:"omitempty,max=255"`
	ValidUntil         *time.Time `json:"valid_until"`
	IsActive           *bool      `json:"is_active"`
}

// ListOffers GET /offers
func (ctrl *OfferController) ListOffers(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	activeOnly, err := strconv.ParseBool(c.DefaultQuery("active_only", "true"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "active_only must be a boolean")
		return
	}

	offers, total, err := ctrl.offerService.List(user, service.OfferListOptions{
		Search:     c.Query("search"),
		StoreID:    c.Query("store_id"),
		ActiveOnly: activeOnly,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondServiceError(c, err, "offer")
		return
	}
	c.JSON(http.StatusOK, listBody("offers", ctrl.presenter.Offers(offers), total, page, limit))
}

// GetOffer GET /offers/:id
func (ctrl *OfferController) GetOffer(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	offer, err := ctrl.offerService.Get(user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "offer")
		return
	}
	c.JSON(http.StatusOK, offer)
}

// CreateOffer POST /offers
func (ctrl *OfferController) CreateOffer(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req OfferRequest
	if !bindJSON(c, &req) {
		return
	}

	offer, err := ctrl.offerService.Create(user, service.OfferInput{
		Title:              req.Title,
		Description:        req.Description,
		DiscountPercentage: *req.DiscountPercentage,
		Image:              req.Image,
		ValidUntil:         req.ValidUntil,
		StoreID:            req.StoreID,
	})
	if err != nil {
		respondServiceError(c, err, "offer")
		return
	}
	c.JSON(http.StatusOK, offer)
}

// UpdateOffer PUT /offers/:id
func (ctrl *OfferController) UpdateOffer(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req OfferUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	offer, err := ctrl.offerService.Update(user, c.Param("id"), service.OfferMutation{
		Title:              req.Title,
		Description:        req.Description,
		DiscountPercentage: req.DiscountPercentage,
		Image:              req.Image,
		ValidUntil:         req.ValidUntil,
		IsActive:           req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "offer")
		return
	}
	c.JSON(http.StatusOK, offer)
}

// DeleteOffer DELETE /offers/:id
func (ctrl *OfferController) DeleteOffer(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := ctrl.offerService.Delete(user, c.Param("id")); err != nil {
		respondServiceError(c, err, "offer")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Offer deleted successfully",
	})
}
