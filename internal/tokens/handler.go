package tokens

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type PurchaseRequest struct {
	Tokens int `json:"tokens" binding:"required,min=1"`
}

func (h *Handler) monthParam(c *gin.Context) (string, bool) {
	month := c.DefaultQuery("month", MonthKey(time.Now()))
	if _, err := time.Parse("2006-01", month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be in YYYY-MM form"})
		return "", false
	}
	return month, true
}

// GetTokenPool godoc
// @Summary      Get club token pool
// @Description  Returns the club's token pool for a month, creating it lazily with tier allocation and rollover.
// @Tags         tokens
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int     true   "Club ID"
// @Param        month   query     string  false  "Month (YYYY-MM), defaults to current"
// @Success      200     {object}  TokenPool
// @Failure      400     {object}  gin.H
// @Failure      404     {object}  gin.H
// @Failure      500     {object}  gin.H
// @Router       /clubs/{clubID}/token-pool [get]
func (h *Handler) GetTokenPool(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	month, ok := h.monthParam(c)
	if !ok {
		return
	}

	pool, err := h.svc.GetPool(c.Request.Context(), clubID, month)
	if err != nil {
		if errors.Is(err, ErrPoolNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No token pool for that month"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load token pool"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pool":      pool,
		"available": pool.Available(),
	})
}

// PurchaseTokens godoc
// @Summary      Purchase token top-up
// @Description  Adds purchased tokens to the club's current month pool. Cash settlement is handled externally.
// @Tags         tokens
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        clubID   path      int              true  "Club ID"
// @Param        request  body      PurchaseRequest  true  "Token amount"
// @Success      200      {object}  TokenPool
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /clubs/{clubID}/token-pool/purchase [post]
func (h *Handler) PurchaseTokens(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tokens must be positive"})
		return
	}

	pool, err := h.svc.Purchase(c.Request.Context(), clubID, MonthKey(time.Now()), req.Tokens)
	if err != nil {
		if errors.Is(err, ErrInvalidTokens) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tokens must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purchase tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "tokens purchased",
		"pool":      pool,
		"available": pool.Available(),
	})
}

// ListTokenTransactions godoc
// @Summary      List token pool transactions
// @Tags         tokens
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int     true   "Club ID"
// @Param        month   query     string  false  "Month (YYYY-MM), defaults to current"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {array}   Transaction
// @Failure      400     {object}  gin.H
// @Router       /clubs/{clubID}/token-pool/transactions [get]
func (h *Handler) ListTokenTransactions(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	month, ok := h.monthParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.svc.GetTransactions(c.Request.Context(), clubID, month, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
