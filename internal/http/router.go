package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/sahayhealth/sahay-backend/internal/http/handlers"
	httpMW "github.com/sahayhealth/sahay-backend/internal/http/middleware"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	ChatHandler   *httpH.ChatHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.ChatHandler != nil {
		r.POST("/chat", cfg.ChatHandler.Chat)
	}

	return r
}
