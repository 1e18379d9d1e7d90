package redemption

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/auth"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RedeemTokens godoc
// @Summary      Redeem tokens against a service
// @Description  Debits the club token pool and records an immutable redemption, capped by the category policy.
// @Tags         redemptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RedeemRequest  true  "Redemption request"
// @Success      201      {object}  Redemption
// @Failure      400      {object}  gin.H
// @Failure      402      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /redemptions [post]
func (h *Handler) RedeemTokens(c *gin.Context) {
	playerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption payload"})
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be RFC3339"})
			return
		}
		scheduledAt = &at
	}

	red, err := h.svc.Execute(
		c.Request.Context(),
		req.ClubID,
		playerID,
		Category(req.Category),
		req.TotalValueCents,
		req.TokensRequested,
		scheduledAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownService):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown service category"})
		case errors.Is(err, ErrInsufficientTokens):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient tokens"})
		case errors.Is(err, ErrRedemptionLimitExceeded):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Redemption exceeds category limit"})
		case errors.Is(err, ErrTimeRestricted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not redeemable at the scheduled time"})
		case errors.Is(err, ErrInvalidValue):
			c.JSON(http.StatusBadRequest, gin.H{"error": "total_value_cents must be positive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute redemption"})
		}
		return
	}

	c.JSON(http.StatusCreated, red)
}

// QuoteRedemption godoc
// @Summary      Quote a redemption split
// @Description  Computes the capped token/cash split without debiting anything.
// @Tags         redemptions
// @Security     BearerAuth
// @Produce      json
// @Param        category           query     string  true   "Service category"
// @Param        total_value_cents  query     int     true   "Service value in cents"
// @Param        tokens_requested   query     int     false  "Requested token amount"
// @Success      200                {object}  Split
// @Failure      400                {object}  gin.H
// @Failure      404                {object}  gin.H
// @Router       /redemptions/quote [get]
func (h *Handler) QuoteRedemption(c *gin.Context) {
	totalValue, err := strconv.ParseInt(c.Query("total_value_cents"), 10, 64)
	if err != nil || totalValue <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_value_cents must be a positive integer"})
		return
	}

	var requested *int
	if raw := c.Query("tokens_requested"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tokens_requested must be an integer"})
			return
		}
		requested = &n
	}

	split, err := h.svc.Calculate(Category(c.Query("category")), totalValue, requested)
	if err != nil {
		if errors.Is(err, ErrUnknownService) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown service category"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, split)
}

// ListRedemptions godoc
// @Summary      List club redemptions
// @Tags         redemptions
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int  true   "Club ID"
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {array}   Redemption
// @Failure      400     {object}  gin.H
// @Router       /clubs/{clubID}/redemptions [get]
func (h *Handler) ListRedemptions(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := h.svc.History(c.Request.Context(), clubID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load redemptions"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
