package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/obsd/support-relay/internal/http/dto"
	"github.com/obsd/support-relay/internal/http/handler/webhook"
	"github.com/obsd/support-relay/internal/mapper"
	"github.com/obsd/support-relay/internal/metrics"
	"github.com/obsd/support-relay/internal/service"
)

type RouterConfig struct {
	Version       string
	SigningSecret string
	Metrics       *metrics.Metrics
	Now           func() time.Time
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.PingResponse{
			Res:     "pong",
			Version: cfg.Version,
			Time:    float64(now().UnixMicro()) / 1e6,
		})
	})
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	eventsHandler := webhook.NewSlackEventsHandler(services.Pipeline(), mapper.NewSlackEventMapper())
	interactiveHandler := webhook.NewSlackInteractiveHandler(services.Escalation())
	SupportRouter(router.Group("/support"), eventsHandler, interactiveHandler, cfg.SigningSecret)
}
