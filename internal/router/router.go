package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pomodoro/tracker/internal/handler"
	"pomodoro/tracker/internal/metrics"
	"pomodoro/tracker/internal/middleware"
)

type Options struct {
	CORSOrigins    []string
	MetricsEnabled bool
	Logger         zerolog.Logger
}

func New(
	pomodoroHandler *handler.PomodoroHandler,
	catalogHandler *handler.CatalogHandler,
	opts Options,
) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestLogger(opts.Logger), gin.Recovery(), middleware.CORS(opts.CORSOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := engine.Group("/api")
	api.GET("/state", pomodoroHandler.GetState)
	api.PUT("/settings", pomodoroHandler.UpdateSettings)
	api.GET("/stats", pomodoroHandler.GetStats)
	api.GET("/history", pomodoroHandler.GetHistory)

	timer := api.Group("/timer")
	timer.POST("/start", pomodoroHandler.Start)
	timer.POST("/pause", pomodoroHandler.Pause)
	timer.POST("/toggle", pomodoroHandler.Toggle)
	timer.POST("/reset", pomodoroHandler.Reset)

	tags := api.Group("/tags")
	tags.GET("", catalogHandler.ListTags)
	tags.POST("", catalogHandler.AddTag)
	tags.PUT("/current", catalogHandler.SetCurrentTag)

	shop := api.Group("/shop")
	shop.GET("/items", catalogHandler.ListShopItems)
	shop.POST("/items", catalogHandler.AddShopItem)
	shop.POST("/items/:index/purchase", catalogHandler.Purchase)

	api.GET("/themes", catalogHandler.ListThemes)
	api.PUT("/theme", catalogHandler.SetTheme)

	return engine
}
