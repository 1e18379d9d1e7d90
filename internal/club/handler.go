package club

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	svc Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		svc: NewService(NewRepository(db)),
	}
}

// CreateClub godoc
// @Summary      Create club
// @Description  Creates a new club. Admin only.
// @Tags         clubs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateClubRequest  true  "Club data"
// @Success      201      {object}  Club
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/clubs [post]
func (h *Handler) CreateClub(c *gin.Context) {
	var req CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and location are required"})
		return
	}

	club, err := h.svc.CreateClub(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create club"})
		return
	}

	c.JSON(http.StatusCreated, club)
}

// ListClubs godoc
// @Summary      List clubs
// @Tags         clubs
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Club
// @Failure      500  {object}  gin.H
// @Router       /clubs [get]
func (h *Handler) ListClubs(c *gin.Context) {
	clubs, err := h.svc.GetAllClubs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clubs"})
		return
	}

	c.JSON(http.StatusOK, clubs)
}

// CreateResource godoc
// @Summary      Create resource
// @Description  Registers a court or coach for a club. Admin only.
// @Tags         clubs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        clubID   path      int                    true  "Club ID"
// @Param        request  body      CreateResourceRequest  true  "Resource data"
// @Success      201      {object}  Resource
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/clubs/{clubID}/resources [post]
func (h *Handler) CreateResource(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource payload"})
		return
	}

	res, err := h.svc.CreateResource(c.Request.Context(), clubID, req)
	if err != nil {
		if errors.Is(err, ErrClubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListResources godoc
// @Summary      List club resources
// @Tags         clubs
// @Security     BearerAuth
// @Produce      json
// @Param        clubID    path      int     true   "Club ID"
// @Param        category  query     string  false  "Filter by category (court or coach)"
// @Success      200       {array}   Resource
// @Failure      400       {object}  gin.H
// @Failure      404       {object}  gin.H
// @Router       /clubs/{clubID}/resources [get]
func (h *Handler) ListResources(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	var category *ResourceCategory
	if q := c.Query("category"); q != "" {
		if q != string(CategoryCourt) && q != string(CategoryCoach) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category must be court or coach"})
			return
		}
		cat := ResourceCategory(q)
		category = &cat
	}

	resources, err := h.svc.GetResources(c.Request.Context(), clubID, category)
	if err != nil {
		if errors.Is(err, ErrClubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch resources"})
		return
	}

	c.JSON(http.StatusOK, resources)
}

// SetResourceActive godoc
// @Summary      Toggle resource activation
// @Tags         clubs
// @Security     BearerAuth
// @Produce      json
// @Param        resourceID  path      int   true  "Resource ID"
// @Param        active      query     bool  true  "Active flag"
// @Success      200         {object}  gin.H
// @Failure      400         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /admin/resources/{resourceID}/active [post]
func (h *Handler) SetResourceActive(c *gin.Context) {
	resourceID, err := strconv.Atoi(c.Param("resourceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	active, err := strconv.ParseBool(c.DefaultQuery("active", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid active flag"})
		return
	}

	if err := h.svc.SetResourceActive(c.Request.Context(), resourceID, active); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resource updated"})
}

// SetOperatingWindow godoc
// @Summary      Set operating hours
// @Description  Sets or replaces the open/close window for one weekday. Admin only.
// @Tags         clubs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        clubID   path      int                        true  "Club ID"
// @Param        request  body      SetOperatingWindowRequest  true  "Window data"
// @Success      200      {object}  OperatingWindow
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /admin/clubs/{clubID}/hours [post]
func (h *Handler) SetOperatingWindow(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	var req SetOperatingWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window payload"})
		return
	}

	w, err := h.svc.SetOperatingWindow(c.Request.Context(), clubID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrClubNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
		case errors.Is(err, ErrWindowInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "open_min must be before close_min"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set operating window"})
		}
		return
	}

	c.JSON(http.StatusOK, w)
}

// ListOperatingWindows godoc
// @Summary      List operating hours
// @Tags         clubs
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int  true  "Club ID"
// @Success      200     {array}   OperatingWindow
// @Failure      404     {object}  gin.H
// @Router       /clubs/{clubID}/hours [get]
func (h *Handler) ListOperatingWindows(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	windows, err := h.svc.GetOperatingWindows(c.Request.Context(), clubID)
	if err != nil {
		if errors.Is(err, ErrClubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch operating windows"})
		return
	}

	c.JSON(http.StatusOK, windows)
}
