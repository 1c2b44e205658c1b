package api

import (
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/content-feed-api/internal/models"
	"github.com/content-feed-api/internal/snapshot"
	"github.com/content-feed-api/internal/store"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	store   *store.Store
	persist *snapshot.Writer
	log     zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(st *store.Store, persist *snapshot.Writer, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		store:   st,
		persist: persist,
		log:     log.With().Str("handler", "article").Logger(),
	}
}

// idParam parses the :id path parameter. Any non-positive or non-numeric
// value is rejected before the store is invoked.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// ListArticles handles GET /articles
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"articles": h.store.ListArticles()})
}

// CreateArticle handles POST /articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.ArticleEnvelope
	if err := c.ShouldBindJSON(&req); err != nil || req.Article == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain an article"})
		return
	}

	article, err := h.store.CreateArticle(req.Article.Title, req.Article.URL, req.Article.Username)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	h.log.Info().Int("article_id", article.ID).Str("author", article.Username).Msg("Article created")
	h.persist.SaveAsync(h.store.Snapshot)

	c.JSON(http.StatusCreated, gin.H{"article": article})
}

// GetArticle handles GET /articles/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	article, comments, err := h.store.GetArticle(id)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": models.ArticleResponse{
		Article:  article,
		Comments: comments,
	}})
}

// UpdateArticle handles PUT /articles/:id
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req models.ArticleEnvelope
	if err := c.ShouldBindJSON(&req); err != nil || req.Article == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must contain an article"})
		return
	}

	article, err := h.store.UpdateArticle(id, *req.Article)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	h.persist.SaveAsync(h.store.Snapshot)

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// DeleteArticle handles DELETE /articles/:id. Deletion cascades to the
// article's comments.
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.store.DeleteArticle(id); err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	h.log.Info().Int("article_id", id).Msg("Article deleted")
	h.persist.SaveAsync(h.store.Snapshot)

	c.Status(http.StatusNoContent)
}

// VoteArticle handles PUT /articles/:id/upvote and /articles/:id/downvote
func (h *ArticleHandler) VoteArticle(c *gin.Context) {
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

	article, err := h.store.VoteArticle(id, req.Username, direction)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	h.persist.SaveAsync(h.store.Snapshot)

	c.JSON(http.StatusOK, gin.H{"article": article})
}
