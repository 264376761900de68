package handlers

import (
	"net/http"

	"vegaaccounts/backend/internal/settings"
	vglog "vegaaccounts/backend/pkg/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReloadSettingsHandler remonta o snapshot de settings a partir do banco e o
// troca atomicamente. Em caso de erro, o snapshot anterior permanece ativo.
func ReloadSettingsHandler(c *gin.Context) {
	if err := settings.Default.Reload(c.Request.Context()); err != nil {
		vglog.L.Named("ReloadSettingsHandler").Error("Failed to reload settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Settings reloaded."})
}
