package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/content-feed-api/internal/snapshot"
	"github.com/content-feed-api/internal/store"
)

// NewRouter creates and configures the Gin router
func NewRouter(st *store.Store, persist *snapshot.Writer, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	userHandler := NewUserHandler(st, persist, log)
	articleHandler := NewArticleHandler(st, persist, log)
	commentHandler := NewCommentHandler(st, persist, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(st))

	// Users
	users := router.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("/:username", userHandler.GetUser)
	}

	// Articles
	articles := router.Group("/articles")
	{
		articles.GET("", articleHandler.ListArticles)
		articles.POST("", articleHandler.CreateArticle)
		articles.GET("/:id", articleHandler.GetArticle)
		articles.PUT("/:id", articleHandler.UpdateArticle)
		articles.DELETE("/:id", articleHandler.DeleteArticle)
		articles.PUT("/:id/upvote", articleHandler.VoteArticle)
		articles.PUT("/:id/downvote", articleHandler.VoteArticle)
	}

	// Comments
	comments := router.Group("/comments")
	{
		comments.POST("", commentHandler.CreateComment)
		comments.GET("/:id", commentHandler.GetComment)
		comments.PUT("/:id", commentHandler.UpdateComment)
		comments.DELETE("/:id", commentHandler.DeleteComment)
		comments.PUT("/:id/upvote", commentHandler.VoteComment)
		comments.PUT("/:id/downvote", commentHandler.VoteComment)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "content-feed-api",
	})
}

// metricsHandler returns live entity counts
func metricsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, articles, comments := st.Counts()

		c.JSON(http.StatusOK, gin.H{
			"store": gin.H{
				"users":    users,
				"articles": articles,
				"comments": comments,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware tags every request with an id for log correlation
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("request_id", c.GetString("request_id")).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// respondStoreError maps store errors to HTTP status codes: invalid input
// to 400, missing resource to 404, anything else to 500.
func respondStoreError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("Unexpected store error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
