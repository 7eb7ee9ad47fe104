package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/VARUN1128/Dial-AI/cmd/dialai/internal/handler"
	"github.com/VARUN1128/Dial-AI/cmd/dialai/internal/services"
	"github.com/VARUN1128/Dial-AI/pkg/ai"
)

func Pages(router *gin.Engine, calls *services.CallService, log *zap.Logger) {
	logHandler := handler.NewLogHandler(calls, log)

	router.GET("/", logHandler.Home)
	router.GET("/logs", logHandler.LogsPage)
}

func Calls(router *gin.Engine, calls *services.CallService, interp ai.Interpreter, log *zap.Logger) {
	callHandler := handler.NewCallHandler(calls, interp, log)

	router.POST("/call", callHandler.InitiateCalls)
	router.POST("/ai-command", callHandler.AICommand)
}

func API(router *gin.RouterGroup, calls *services.CallService, interp ai.Interpreter, log *zap.Logger) {
	callHandler := handler.NewCallHandler(calls, interp, log)
	logHandler := handler.NewLogHandler(calls, log)

	router.GET("/logs", logHandler.GetLogs)
	router.POST("/cleanup-logs", logHandler.CleanupLogs)
	router.GET("/check-verification/:phone_number", callHandler.CheckVerification)
}
