package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterOptions struct {
	RequestTimeout time.Duration
	Limiter        Limiter // registration limiter; nil disables it
	Service        string
}

func NewRouter(h *Handler, o RouterOptions) *gin.Engine {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.Service == "" {
		o.Service = "devconnector-api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Tracing(o.Service))
	r.Use(Metrics())
	r.Use(RequestLogger(h.Log))
	r.Use(ErrorMiddleware(h.Log))
	r.Use(Timeout(o.RequestTimeout))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	users := []gin.HandlerFunc{h.Register}
	if o.Limiter != nil {
		users = append([]gin.HandlerFunc{RateLimit(o.Limiter, "register", h.Log)}, users...)
	}

	api := r.Group("/api")
	{
		api.POST("/users", users...)
		api.POST("/profile", AuthJWT(h.JWTSecret), withIdentity(h.SaveProfile))
		api.GET("/profile/me", AuthJWT(h.JWTSecret), withIdentity(h.GetMyProfile))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
	})
	return r
}
