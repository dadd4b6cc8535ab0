package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	"github.com/zhwaweb/zhwaweb-admin/internal/middleware"
)

type SubscriptionController struct {
	subscriptionService service.SubscriptionService
	presenter           *Presenter
}

func NewSubscriptionController(subscriptionService service.SubscriptionService, presenter *Presenter) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		presenter:           presenter,
	}
}

// ListSubscriptions GET /subscriptions
func (ctrl *SubscriptionController) ListSubscriptions(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	subs, total, err := ctrl.subscriptionService.List(user, service.SubscriptionListOptions{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondServiceError(c, err, "subscription")
		return
	}
	c.JSON(http.StatusOK, listBody("subscriptions", ctrl.presenter.Subscriptions(subs), total, page, limit))
}

// CheckByEmail GET /subscriptions/check/:email (public)
func (ctrl *SubscriptionController) CheckByEmail(c *gin.Context) {
	sub, err := ctrl.subscriptionService.CheckByEmail(c.Param("email"))
	if err != nil {
		respondServiceError(c, err, "subscription")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Subscription(sub))
}

// CreateSubscription POST /subscriptions (public)
func (ctrl *SubscriptionController) CreateSubscription(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := ctrl.subscriptionService.Create(req.toProfile())
	if err != nil {
		respondServiceError(c, err, "subscription")
		return
	}

	log.Info("Subscription request received", map[string]interface{}{
		"subscription_id": sub.ID,
	})
	c.JSON(http.StatusOK, ctrl.presenter.Subscription(sub))
}

// UpdateByEmail PUT /subscriptions/update-by-email/:email (public)
func (ctrl *SubscriptionController) UpdateByEmail(c *gin.Context) {
	var req ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := ctrl.subscriptionService.UpdateByEmail(c.Param("email"), req.toMutation())
	if err != nil {
		respondServiceError(c, err, "subscription")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Subscription(sub))
}

// GetSubscription GET /subscriptions/:id
func (ctrl *SubscriptionController) GetSubscription(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	sub, err := ctrl.subscriptionService.Get(user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "subscription")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Subscription(sub))
}

// UpdateSubscription PUT /subscriptions/:id
func (ctrl *SubscriptionController) UpdateSubscription(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	var req ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := ctrl.subscriptionService.Update(user, c.Param("id"), req.toMutation())
	if err != nil {
		respondServiceError(c, err, "subscription")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Subscription(sub))
}

// ApproveSubscription PUT /subscriptions/:id/approve
func (ctrl *SubscriptionController) ApproveSubscription(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	sub, err := ctrl.subscriptionService.Approve(user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "subscription")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Subscription(sub))
}

// RejectSubscription PUT /subscriptions/:id/reject
func (ctrl *SubscriptionController) RejectSubscription(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	sub, err := ctrl.subscriptionService.Reject(user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "subscription")
		return
	}
	c.JSON(http.StatusOK, ctrl.presenter.Subscription(sub))
}

// DeleteSubscription DELETE /subscriptions/:id
func (ctrl *SubscriptionController) DeleteSubscription(c *gin.Context) {
	user, ok := currentPrincipal(c)
	if !ok {
		return
	}

	if err := ctrl.subscriptionService.Delete(user, c.Param("id")); err != nil {
		respondServiceError(c, err, "subscription")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Subscription deleted successfully",
	})
}
