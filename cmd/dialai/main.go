package main

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/VARUN1128/Dial-AI/cmd/dialai/internal/services"
	"github.com/VARUN1128/Dial-AI/cmd/dialai/app/routes"
	"github.com/VARUN1128/Dial-AI/logger"
	"github.com/VARUN1128/Dial-AI/metrics"
	"github.com/VARUN1128/Dial-AI/middlewares"
	"github.com/VARUN1128/Dial-AI/pkg/ai"
	"github.com/VARUN1128/Dial-AI/pkg/calllog"
	"github.com/VARUN1128/Dial-AI/pkg/config"
	"github.com/VARUN1128/Dial-AI/pkg/govoice"
	"github.com/VARUN1128/Dial-AI/pkg/sanitize"
	"github.com/VARUN1128/Dial-AI/pkg/utils"
	"github.com/VARUN1128/Dial-AI/tracing"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	logr, err := logger.InitLogger()
	if err != nil {
		panic("Failed to initialize zap logger: " + err.Error())
	}
	logr.Info("Logger initialized")

	cfg, err := config.Load(utils.GetEnvDefault("CONFIG_FILE", "config.yaml"))
	if err != nil {
		logr.Fatal("Failed to load config", zap.Error(err))
	}

	metrics.InitAPIMetrics()

	if cfg.OTLPEndpoint != "" {
		shutdown := tracing.InitTracer("dialai", cfg.OTLPEndpoint, logr)
		defer shutdown()
	}

	dialer, err := config.BuildDialer(cfg)
	if err != nil {
		logr.Fatal("Failed to build dialer", zap.Error(err))
	}
	if _, ok := dialer.(govoice.NoDialer); ok {
		logr.Warn("Twilio credentials not configured, every dial will report a configuration error")
	}

	store := calllog.NewFileStore(cfg.CallsFile)

	client := ai.NewClientFromEnv()
	if client != nil {
		logr.Info("Language model configured", zap.String("provider", client.Name()))
	} else {
		logr.Info("No language model key found, command parsing uses rules only")
	}
	interp := ai.NewParser(client, logr)

	calls := services.NewCallService(dialer, store, cfg.Voice.Provider, cfg.CallOptions(), logr)

	router := gin.Default()
	router.Use(middlewares.RequestID())
	router.Use(middlewares.GinMetricsMiddleware())
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		rl := middlewares.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), burst)
		router.Use(rl.Middleware())
	}

	router.SetFuncMap(template.FuncMap{
		"cleanError": func(s *string) string {
			if s == nil {
				return ""
			}
			return sanitize.CleanError(*s)
		},
	})
	router.LoadHTMLGlob("templates/*.html")
	router.Static("/static", "./static")

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.Pages(router, calls, logr)
	routes.Calls(router, calls, interp, logr)
	routes.API(router.Group("/api"), calls, interp, logr)

	logr.Info("Starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logr.Fatal("Failed to start server", zap.Error(err))
	}
}
