package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type SubscribeRequest struct {
	Tier string `json:"tier" binding:"required,oneof=community competitor champion"`
}

// ListPlans godoc
// @Summary      List subscription tiers
// @Tags         subscriptions
// @Produce      json
// @Success      200  {array}  TierSpec
// @Router       /subscriptions/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, Plans())
}

// Subscribe godoc
// @Summary      Subscribe a club to a tier (admin)
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        clubID   path      int               true  "Club ID"
// @Param        request  body      SubscribeRequest  true  "Tier"
// @Success      201      {object}  ClubSubscription
// @Failure      400      {object}  gin.H
// @Router       /admin/clubs/{clubID}/subscription [post]
func (h *Handler) Subscribe(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.svc.Subscribe(c.Request.Context(), clubID, Tier(req.Tier))
	if err != nil {
		if errors.Is(err, ErrUnknownTier) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscription"})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// GetCurrentTier godoc
// @Summary      Get a club's active tier
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int  true  "Club ID"
// @Success      200     {object}  TierSpec
// @Router       /clubs/{clubID}/subscription [get]
func (h *Handler) GetCurrentTier(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	c.JSON(http.StatusOK, h.svc.CurrentTier(c.Request.Context(), clubID))
}

// ListSubscriptions godoc
// @Summary      List a club's subscriptions (admin)
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int  true  "Club ID"
// @Success      200     {array}   ClubSubscription
// @Router       /admin/clubs/{clubID}/subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	subs, err := h.svc.ListByClub(c.Request.Context(), clubID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subscriptions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// CancelSubscription godoc
// @Summary      Cancel a subscription (admin)
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Subscription ID"
// @Success      200  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /admin/subscriptions/{id} [delete]
func (h *Handler) CancelSubscription(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrSubscriptionNotFoundOrInactive) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subscription cancelled"})
}
