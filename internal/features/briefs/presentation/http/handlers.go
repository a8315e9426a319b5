package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"specforge/internal/features/briefs/application"
	"specforge/internal/features/briefs/domain"
	configapp "specforge/internal/features/config/application"
)

// BriefHandler holds the brief service and the generation settings service.
type BriefHandler struct {
	briefService  application.BriefService
	configService configapp.ConfigService
}

// NewBriefHandler creates a new BriefHandler.
func NewBriefHandler(briefService application.BriefService, configService configapp.ConfigService) *BriefHandler {
	return &BriefHandler{
		briefService:  briefService,
		configService: configService,
	}
}

// RegisterRoutes mounts the brief routes on r (normally the /api/briefs group).
func (h *BriefHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("", h.ListBriefsHandler)
	r.POST("", h.CreateBriefHandler)
	r.GET("/:id", h.GetBriefHandler)
	r.DELETE("/:id", h.DeleteBriefHandler)
}

// ListBriefsHandler returns every brief newest first.
func (h *BriefHandler) ListBriefsHandler(c *gin.Context) {
	briefs, err := h.briefService.ListBriefs(c.Request.Context())
	if err != nil {
		log.Println("[ERROR] Failed to list briefs:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list briefs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, briefs)
}

// GetBriefHandler returns a single brief.
func (h *BriefHandler) GetBriefHandler(c *gin.Context) {
	id, ok := parseBriefID(c)
	if !ok {
		return
	}

	brief, err := h.briefService.GetBrief(c.Request.Context(), id)
	if err != nil {
		writeBriefError(c, err)
		return
	}
	c.JSON(http.StatusOK, brief)
}

// CreateBriefHandler generates a spec for the submitted idea and stores it.
func (h *BriefHandler) CreateBriefHandler(c *gin.Context) {
	var req domain.CreateBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Rejected before settings are loaded so an invalid form never reaches the model.
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.configService.GetSettings()
	if err != nil {
		log.Println("[ERROR] Failed to load app config:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load app config: " + err.Error()})
		return
	}

	brief, err := h.briefService.CreateBrief(c.Request.Context(), &req, settings)
	if err != nil {
		writeBriefError(c, err)
		return
	}
	c.JSON(http.StatusCreated, brief)
}

// DeleteBriefHandler removes a brief.
func (h *BriefHandler) DeleteBriefHandler(c *gin.Context) {
	id, ok := parseBriefID(c)
	if !ok {
		return
	}

	if err := h.briefService.DeleteBrief(c.Request.Context(), id); err != nil {
		writeBriefError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brief deleted successfully"})
}

// parseBriefID reads the :id path parameter. Non-numeric ids cannot name a
// brief, so they are answered with 404.
func parseBriefID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Brief not found"})
		return 0, false
	}
	return uint(id), true
}

func writeBriefError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBriefNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Brief not found"})
	case errors.Is(err, domain.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Println("[ERROR] Brief request failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
