package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/VARUN1128/Dial-AI/cmd/dialai/internal/services"
	"github.com/VARUN1128/Dial-AI/metrics"
	"github.com/VARUN1128/Dial-AI/pkg/ai"
	"github.com/VARUN1128/Dial-AI/pkg/govoice"
	"github.com/VARUN1128/Dial-AI/pkg/sanitize"
)

type CallHandler struct {
	calls  *services.CallService
	interp ai.Interpreter
	log    *zap.Logger
}

func NewCallHandler(calls *services.CallService, interp ai.Interpreter, log *zap.Logger) *CallHandler {
	return &CallHandler{calls: calls, interp: interp, log: log}
}

// InitiateCalls dials every number found in the "numbers" form field or an
// uploaded file. The file wins when both are present.
func (h *CallHandler) InitiateCalls(c *gin.Context) {
	text := c.PostForm("numbers")
	if fh, err := c.FormFile("file"); err == nil && fh.Filename != "" {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read uploaded file"})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read uploaded file"})
			return
		}
		text = string(data)
	}

	numbers := h.calls.ParseNumbers(c.Request.Context(), text)
	if len(numbers) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "No valid phone numbers provided"})
		return
	}

	results := h.calls.PlaceCalls(c.Request.Context(), numbers)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   len(numbers),
		"results": results,
	})
}

// AICommand interprets a natural-language instruction and dispatches the
// resulting action. "call_all" pulls its targets from the optional
// "numbers" field.
func (h *CallHandler) AICommand(c *gin.Context) {
	command := c.PostForm("command")
	if command == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "command is required"})
		return
	}

	cmd := h.interp.Interpret(c.Request.Context(), command)
	metrics.CommandsParsedTotal.WithLabelValues(string(cmd.Action)).Inc()
	h.log.Info("command interpreted",
		zap.String("command", command),
		zap.String("action", string(cmd.Action)),
	)

	switch cmd.Action {
	case ai.ActionCallSingle:
		if cmd.Number == "" {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "No phone number found in command"})
			return
		}
		attempt := h.calls.PlaceCall(c.Request.Context(), cmd.Number)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"action":  ai.ActionCallSingle,
			"result":  attempt,
		})

	case ai.ActionCallAll:
		text := c.PostForm("numbers")
		if text == "" {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "No phone numbers available to call"})
			return
		}
		numbers := h.calls.ParseNumbers(c.Request.Context(), text)
		if len(numbers) == 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "No valid phone numbers found"})
			return
		}
		results := h.calls.PlaceCalls(c.Request.Context(), numbers)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"action":  ai.ActionCallAll,
			"total":   len(numbers),
			"results": results,
		})

	default:
		errMsg := cmd.Error
		if errMsg == "" {
			errMsg = "Unknown command"
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   errMsg,
			"parsed":  cmd,
		})
	}
}

// CheckVerification reports whether a number is on the provider's verified
// caller id list. Trial accounts can only call verified numbers, so the UI
// offers this lookup before dialing.
func (h *CallHandler) CheckVerification(c *gin.Context) {
	number := c.Param("phone_number")

	status, err := h.calls.CheckVerification(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, govoice.ErrNotConfigured) {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Twilio credentials not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":      false,
			"error":        sanitize.CleanError(err.Error()),
			"phone_number": number,
		})
		return
	}

	message := "Verified"
	if !status.IsVerified {
		message = fmt.Sprintf("Number %s is NOT verified. Please verify it in Twilio Console.", status.Number)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"phone_number":     status.Number,
		"is_verified":      status.IsVerified,
		"verified_numbers": status.Verified,
		"message":          message,
	})
}
