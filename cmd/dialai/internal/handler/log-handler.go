package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/VARUN1128/Dial-AI/cmd/dialai/internal/services"
)

type LogHandler struct {
	calls *services.CallService
	log   *zap.Logger
}

func NewLogHandler(calls *services.CallService, log *zap.Logger) *LogHandler {
	return &LogHandler{calls: calls, log: log}
}

func (h *LogHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

func (h *LogHandler) LogsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "logs.html", gin.H{"logs": h.calls.Logs()})
}

func (h *LogHandler) GetLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": h.calls.Logs()})
}

// CleanupLogs re-runs the error sanitizer over the whole call history.
// Useful after the sanitizer learns a new provider error shape.
func (h *LogHandler) CleanupLogs(c *gin.Context) {
	count, err := h.calls.CleanupLogs()
	if err != nil {
		h.log.Error("cleaning up logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Cleaned up %d log entries", count),
		"count":   count,
	})
}
