package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"chat-session/api/handlers"
	"chat-session/api/middleware"
	_ "chat-session/docs"
	"chat-session/dto"
	"chat-session/services"
)

// Options wires the HTTP surface to its dependencies.
type Options struct {
	Chat *services.ChatService

	// Store names the persistence backend reported by /health.
	Store string
	// Health pings the persistence backend; nil always reports ok.
	Health func(ctx context.Context) error
	// QuotaRemaining reports today's remaining completion calls on /health.
	QuotaRemaining func() int
}

func New(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.RequestLogging())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		resp := dto.HealthResponseDTO{Status: "ok", Store: opts.Store}
		if opts.QuotaRemaining != nil {
			remaining := opts.QuotaRemaining()
			resp.CompletionQuotaRemaining = &remaining
		}
		if opts.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := opts.Health(ctx); err != nil {
				resp.Status = "degraded"
				resp.Error = err.Error()
				c.JSON(http.StatusServiceUnavailable, resp)
				return
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/sessions", handlers.ListSessionsHandler(opts.Chat))
		api.POST("/sessions", handlers.CreateSessionHandler(opts.Chat))
		api.PATCH("/sessions/:id", handlers.RenameSessionHandler(opts.Chat))
		api.DELETE("/sessions/:id", handlers.DeleteSessionHandler(opts.Chat))
		api.GET("/sessions/:id/messages", handlers.ListMessagesHandler(opts.Chat))
		api.POST("/sessions/:id/ask", handlers.AskHandler(opts.Chat))
		api.POST("/sessions/:id/summarize-name", handlers.SummarizeSessionNameHandler(opts.Chat))
	}

	return r
}
