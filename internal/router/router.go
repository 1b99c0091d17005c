package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tempo/backend/internal/handler"
	"tempo/backend/internal/middleware"
	"tempo/backend/internal/service"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Timer   *handler.TimerHandler
	Reviews *handler.ReviewHandler
	Habits  *handler.HabitHandler
	History *handler.HistoryHandler
	Events  *handler.EventsHandler
}

func New(authService *service.AuthService, h Handlers, corsOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.POST("/auth/token", h.Auth.IssueToken)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService))

	timer := protected.Group("/timer")
	timer.GET("", h.Timer.GetState)
	timer.POST("/start", h.Timer.Start)
	timer.POST("/pause", h.Timer.Pause)
	timer.POST("/reset", h.Timer.Reset)
	timer.POST("/skip", h.Timer.Skip)
	timer.POST("/tick", h.Timer.Tick)
	timer.PUT("/settings", h.Timer.UpdateSettings)
	timer.PUT("/label", h.Timer.SelectLabel)

	reviews := protected.Group("/reviews")
	reviews.GET("", h.Reviews.List)
	reviews.POST("", h.Reviews.Create)
	reviews.GET("/:id", h.Reviews.Get)
	reviews.PATCH("/:id", h.Reviews.Update)
	reviews.DELETE("/:id", h.Reviews.Delete)
	reviews.POST("/:id/complete", h.Reviews.Complete)

	habits := protected.Group("/habits")
	habits.GET("", h.Habits.List)
	habits.POST("", h.Habits.Create)
	habits.GET("/:id", h.Habits.Get)
	habits.PATCH("/:id", h.Habits.Update)
	habits.DELETE("/:id", h.Habits.Delete)
	habits.POST("/:id/days/:date/toggle", h.Habits.ToggleCompletion)
	habits.PUT("/:id/days/:date/value", h.Habits.SetValue)

	protected.GET("/sessions", h.History.Sessions)
	protected.GET("/sessions/stats", h.History.Stats)

	protected.GET("/labels", h.History.ListLabels)
	protected.POST("/labels", h.History.CreateLabel)
	protected.DELETE("/labels/:id", h.History.DeleteLabel)

	protected.GET("/events", h.Events.Stream)

	return engine
}
