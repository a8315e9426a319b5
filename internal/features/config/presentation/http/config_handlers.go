package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"specforge/internal/features/config/application"
	"specforge/internal/features/config/domain"
)

// AppConfigHandler holds the settings service.
type AppConfigHandler struct {
	configService application.ConfigService
}

// NewAppConfigHandler creates a new AppConfigHandler.
func NewAppConfigHandler(configService application.ConfigService) *AppConfigHandler {
	return &AppConfigHandler{
		configService: configService,
	}
}

// RegisterRoutes mounts GET and POST /app on r.
func (h *AppConfigHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/app", h.GetAppConfigHandler)
	r.POST("/app", h.SaveAppConfigHandler)
}

// GetAppConfigHandler handles fetching the generation settings.
func (h *AppConfigHandler) GetAppConfigHandler(c *gin.Context) {
	appConfig, err := h.configService.GetSettings()
	if err != nil {
		log.Println("[ERROR] Failed to load app config:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load app config: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, appConfig)
}

// SaveAppConfigHandler handles updating the generation settings. The body is
// decoded over the current settings, so omitted fields keep their values.
func (h *AppConfigHandler) SaveAppConfigHandler(c *gin.Context) {
	current, err := h.configService.GetSettings()
	if err != nil {
		log.Println("[ERROR] Failed to load app config:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load app config: " + err.Error()})
		return
	}

	appConfig := *current
	if err := c.ShouldBindJSON(&appConfig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.configService.UpdateSettings(&appConfig)
	if errors.Is(err, domain.ErrInvalidSettings) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Println("[ERROR] Failed to save app config:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save app config: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "App config saved successfully", "config": saved})
}
