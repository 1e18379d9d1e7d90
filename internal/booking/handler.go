package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/auth"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/schedule"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/tokens"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/wallet"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// GetAvailableSlots godoc
// @Summary      List free slots for a resource
// @Description  Returns free start times on the booking grid for a resource and date. Starts blocked for the full duration report the longest shorter duration still free.
// @Tags         bookings
// @Produce      json
// @Param        clubID      path      int     true   "Club ID"
// @Param        resourceID  path      int     true   "Resource ID"
// @Param        date        query     string  true   "Date (YYYY-MM-DD)"
// @Param        duration    query     int     false  "Desired duration in minutes (default 60)"
// @Success      200  {array}   Slot
// @Failure      400  {object}  gin.H
// @Router       /clubs/{clubID}/resources/{resourceID}/slots [get]
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}
	resourceID, err := strconv.Atoi(c.Param("resourceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}
	duration, _ := strconv.Atoi(c.DefaultQuery("duration", "60"))

	slots, err := h.svc.GetAvailableSlots(c.Request.Context(), clubID, resourceID, c.Query("date"), duration)
	if err != nil {
		status := http.StatusInternalServerError
		var parseErr *time.ParseError
		switch {
		case errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrInvalidResources), errors.As(err, &parseErr):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// CreateReservation godoc
// @Summary      Reserve a slot
// @Description  Places a pending reservation for one court, optionally with a coach. Payment is planned here and settled at confirm.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReservationRequest  true  "Reservation"
// @Success      201      {object}  Reservation
// @Failure      400      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      503      {object}  gin.H
// @Router       /bookings [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	playerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Create(c.Request.Context(), playerID, req)
	if err != nil {
		c.JSON(createStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ConfirmReservation godoc
// @Summary      Confirm a pending reservation
// @Description  Settles the token and cash legs and flips the status. Confirming an already confirmed reservation is a no-op.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Reservation ID"
// @Success      200  {object}  Reservation
// @Failure      402  {object}  gin.H
// @Failure      409  {object}  gin.H
// @Router       /bookings/{id}/confirm [post]
func (h *Handler) ConfirmReservation(c *gin.Context) {
	playerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	res, err := h.svc.Confirm(c.Request.Context(), playerID, id)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrReservationNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, tokens.ErrInsufficientTokens), errors.Is(err, wallet.ErrInsufficientBalance):
			status = http.StatusPaymentRequired
		case errors.Is(err, ErrConflict), errors.Is(err, ErrStarted):
			status = http.StatusConflict
		case errors.Is(err, ErrNotCancellable):
			status = http.StatusBadRequest
		case errors.Is(err, ErrUnavailable):
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// CancelReservation godoc
// @Summary      Cancel a reservation
// @Description  Cancels and refunds per the time-based refund bands. Inside two hours of the start the reservation cannot be cancelled.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Reservation ID"
// @Success      200  {object}  CancelResult
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /bookings/{id}/cancel [post]
func (h *Handler) CancelReservation(c *gin.Context) {
	playerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), playerID, id)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrReservationNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, ErrNotCancellable), errors.Is(err, ErrTooLateToCancel):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMyReservations godoc
// @Summary      List own reservations
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Reservation
// @Router       /bookings/my [get]
func (h *Handler) GetMyReservations(c *gin.Context) {
	playerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	out, err := h.svc.GetUserReservations(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservations"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetClubReservations godoc
// @Summary      List club reservations (admin)
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int     true   "Club ID"
// @Param        date    query     string  false  "Filter by date (YYYY-MM-DD)"
// @Success      200  {array}  Reservation
// @Router       /clubs/{clubID}/bookings [get]
func (h *Handler) GetClubReservations(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	var filter *time.Time
	if raw := c.Query("date"); raw != "" {
		day, err := schedule.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD form"})
			return
		}
		filter = &day
	}

	out, err := h.svc.GetClubReservations(c.Request.Context(), clubID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reservations"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func createStatus(err error) int {
	switch {
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrOutOfHours), errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrInvalidResources), errors.Is(err, ErrInPast):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
