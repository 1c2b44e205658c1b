package api

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/content-feed-api/internal/models"
	"github.com/content-feed-api/internal/snapshot"
	"github.com/content-feed-api/internal/store"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	store   *store.Store
	persist *snapshot.Writer
	log     zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(st *store.Store, persist *snapshot.Writer, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		store:   st,
		persist: persist,
		log:     log.With().Str("handler", "comment").Logger(),
	}
}

// CreateComment handles POST /comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CommentEnvelope
	if err := c.ShouldBindJSON(&req); err != nil || req.Comment == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a comment"})
		return
	}

	comment, err := h.store.CreateComment(req.Comment.Body, req.Comment.Username, req.Comment.ArticleID)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	h.log.Info().
		Int("comment_id", comment.ID).
		Int("article_id", comment.ArticleID).
		Str("author", comment.Username).
		Msg("Comment created")
	h.persist.SaveAsync(h.store.Snapshot)

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// GetComment handles GET /comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	comment, err := h.store.GetComment(id)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// UpdateComment handles PUT /comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.CommentEnvelope
	if err := c.ShouldBindJSON(&req); err != nil || req.Comment == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a comment"})
		return
	}

	comment, err := h.store.UpdateComment(id, *req.Comment)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	h.persist.SaveAsync(h.store.Snapshot)

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment handles DELETE /comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.store.DeleteComment(id); err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	h.log.Info().Int("comment_id", id).Msg("Comment deleted")
	h.persist.SaveAsync(h.store.Snapshot)

	c.Status(http.StatusNoContent)
}

// VoteComment handles PUT /comments/:id/upvote and /comments/:id/downvote
func (h *CommentHandler) VoteComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain a username"})
		return
	}

	direction, err := store.ParseDirection(path.Base(c.FullPath()))
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	comment, err := h.store.VoteComment(id, req.Username, direction)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	h.persist.SaveAsync(h.store.Snapshot)

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}
