package payment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	tokenRate decimal.Decimal
}

func NewHandler(tokenRate decimal.Decimal) *Handler {
	return &Handler{tokenRate: tokenRate}
}

// QuotePayment godoc
// @Summary      Quote payment options
// @Description  Returns tokens-only, cash-only and (when applicable) hybrid payment options for a priced item. Advisory: balances are re-checked at confirmation.
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        item_cost_tokens  query     int  true   "Item cost in tokens"
// @Param        available_tokens  query     int  true   "Caller's available token balance"
// @Param        cash_price_cents  query     int  false  "Cash price override in cents"
// @Success      200               {object}  Quote
// @Failure      400               {object}  gin.H
// @Router       /payments/quote [get]
func (h *Handler) QuotePayment(c *gin.Context) {
	itemCost, err := strconv.Atoi(c.Query("item_cost_tokens"))
	if err != nil || itemCost <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_cost_tokens must be a positive integer"})
		return
	}

	available, err := strconv.Atoi(c.Query("available_tokens"))
	if err != nil || available < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available_tokens must be a non-negative integer"})
		return
	}

	var cashPrice *int64
	if raw := c.Query("cash_price_cents"); raw != "" {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || cents <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cash_price_cents must be a positive integer"})
			return
		}
		cashPrice = &cents
	}

	c.JSON(http.StatusOK, BuildQuote(itemCost, cashPrice, available, h.tokenRate))
}
