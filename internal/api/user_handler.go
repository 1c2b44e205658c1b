package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/content-feed-api/internal/models"
	"github.com/content-feed-api/internal/snapshot"
	"github.com/content-feed-api/internal/store"
)

// UserHandler handles user endpoints
type UserHandler struct {
	store   *store.Store
	persist *snapshot.Writer
	log     zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(st *store.Store, persist *snapshot.Writer, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		store:   st,
		persist: persist,
		log:     log.With().Str("handler", "user").Logger(),
	}
}

// CreateUser handles POST /users. Creating a username that already exists
// returns the existing user with 200 instead of 201.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a username"})
		return
	}

	user, created, err := h.store.CreateUser(req.Username)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.log.Info().Str("username", user.Username).Msg("User created")
		h.persist.SaveAsync(h.store.Snapshot)
	}

	c.JSON(status, gin.H{"user": user})
}

// GetUser handles GET /users/:username
func (h *UserHandler) GetUser(c *gin.Context) {
	user, articles, comments, err := h.store.GetUser(c.Param("username"))
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{
		User:         user,
		UserArticles: articles,
		UserComments: comments,
	})
}
