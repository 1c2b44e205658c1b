package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/content-feed-api/internal/api"
	"github.com/content-feed-api/internal/models"
	"github.com/content-feed-api/internal/snapshot"
	"github.com/content-feed-api/internal/store"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	persist := snapshot.NewWriter(filepath.Join(t.TempDir(), "snapshot.json"), zerolog.Nop())
	router := api.NewRouter(st, persist, zerolog.Nop())

	return router, st
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, "GET", "/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "content-feed-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, st := setupTestRouter(t)
	st.CreateUser("alice")
	st.CreateArticle("T", "http://x", "alice")

	w := doRequest(router, "GET", "/metrics", "")

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	counts := response["store"].(map[string]interface{})
	if counts["users"].(float64) != 1 {
		t.Errorf("Expected 1 user, got %v", counts["users"])
	}
	if counts["articles"].(float64) != 1 {
		t.Errorf("Expected 1 article, got %v", counts["articles"])
	}
}

// TestUserArticleCommentLifecycle walks the full create/delete flow: a new
// user authors an article and a comment, then deleting the article cascades
// to the comment and cleans both of the user's id lists.
func TestUserArticleCommentLifecycle(t *testing.T) {
	router, _ := setupTestRouter(t)

	// Create user bob
	w := doRequest(router, "POST", "/users", `{"username":"bob"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var userResp struct {
		User models.User `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &userResp)
	if userResp.User.Username != "bob" {
		t.Errorf("Expected username 'bob', got %q", userResp.User.Username)
	}
	if len(userResp.User.ArticleIDs) != 0 || len(userResp.User.CommentIDs) != 0 {
		t.Errorf("Expected empty id lists, got %v / %v", userResp.User.ArticleIDs, userResp.User.CommentIDs)
	}
	if !strings.Contains(w.Body.String(), `"articleIds":[]`) {
		t.Errorf("Expected articleIds to render as [], got: %s", w.Body.String())
	}

	// Create article id 1
	w = doRequest(router, "POST", "/articles", `{"article":{"title":"T","url":"http://x","username":"bob"}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var articleResp struct {
		Article models.Article `json:"article"`
	}
	json.Unmarshal(w.Body.Bytes(), &articleResp)
	if articleResp.Article.ID != 1 {
		t.Errorf("Expected article id 1, got %d", articleResp.Article.ID)
	}

	// Create comment id 1
	w = doRequest(router, "POST", "/comments", `{"comment":{"body":"nice","username":"bob","articleId":1}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var commentResp struct {
		Comment models.Comment `json:"comment"`
	}
	json.Unmarshal(w.Body.Bytes(), &commentResp)
	if commentResp.Comment.ID != 1 {
		t.Errorf("Expected comment id 1, got %d", commentResp.Comment.ID)
	}

	// Article resolves its comments
	w = doRequest(router, "GET", "/articles/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"body":"nice"`) {
		t.Errorf("Expected resolved comment in article body, got: %s", w.Body.String())
	}

	// Delete article cascades to the comment
	w = doRequest(router, "DELETE", "/articles/1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/comments/1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for cascaded comment, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/users/bob", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var fullUser models.UserResponse
	json.Unmarshal(w.Body.Bytes(), &fullUser)
	if len(fullUser.User.ArticleIDs) != 0 {
		t.Errorf("Expected empty articleIds after cascade, got %v", fullUser.User.ArticleIDs)
	}
	if len(fullUser.User.CommentIDs) != 0 {
		t.Errorf("Expected empty commentIds after cascade, got %v", fullUser.User.CommentIDs)
	}
}

func TestCreateUser_ExistingReturns200(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, "POST", "/users", `{"username":"alice"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}

	w = doRequest(router, "POST", "/users", `{"username":"alice"}`)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for existing user, got %d", w.Code)
	}
}

func TestListArticles_OrderedDescending(t *testing.T) {
	router, st := setupTestRouter(t)
	st.CreateUser("alice")
	st.CreateArticle("one", "http://1", "alice")
	st.CreateArticle("two", "http://2", "alice")
	st.CreateArticle("three", "http://3", "alice")

	w := doRequest(router, "GET", "/articles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Articles []models.Article `json:"articles"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if len(response.Articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(response.Articles))
	}
	for i, want := range []int{3, 2, 1} {
		if response.Articles[i].ID != want {
			t.Errorf("Expected id %d at position %d, got %d", want, i, response.Articles[i].ID)
		}
	}
}

func TestUpdateArticle_EmptyFieldKeepsValue(t *testing.T) {
	router, st := setupTestRouter(t)
	st.CreateUser("alice")
	st.CreateArticle("original", "http://original", "alice")

	w := doRequest(router, "PUT", "/articles/1", `{"article":{"title":"changed"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		Article models.Article `json:"article"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response.Article.Title != "changed" {
		t.Errorf("Expected title 'changed', got %q", response.Article.Title)
	}
	if response.Article.URL != "http://original" {
		t.Errorf("Expected url kept, got %q", response.Article.URL)
	}
}

func TestVoteEndpoints(t *testing.T) {
	router, st := setupTestRouter(t)
	st.CreateUser("alice")
	st.CreateArticle("T", "http://x", "alice")
	st.CreateComment("hi", "alice", 1)

	// Upvoting twice is idempotent
	doRequest(router, "PUT", "/articles/1/upvote", `{"username":"alice"}`)
	w := doRequest(router, "PUT", "/articles/1/upvote", `{"username":"alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var articleResp struct {
		Article models.Article `json:"article"`
	}
	json.Unmarshal(w.Body.Bytes(), &articleResp)
	if len(articleResp.Article.UpvotedBy) != 1 || articleResp.Article.UpvotedBy[0] != "alice" {
		t.Errorf("Expected upvotedBy [alice], got %v", articleResp.Article.UpvotedBy)
	}

	// Downvote moves the same user across
	w = doRequest(router, "PUT", "/articles/1/downvote", `{"username":"alice"}`)
	json.Unmarshal(w.Body.Bytes(), &articleResp)
	if len(articleResp.Article.UpvotedBy) != 0 {
		t.Errorf("Expected empty upvotedBy, got %v", articleResp.Article.UpvotedBy)
	}
	if len(articleResp.Article.DownvotedBy) != 1 {
		t.Errorf("Expected downvotedBy [alice], got %v", articleResp.Article.DownvotedBy)
	}

	// Comment voting shares the same behavior
	w = doRequest(router, "PUT", "/comments/1/upvote", `{"username":"alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var commentResp struct {
		Comment models.Comment `json:"comment"`
	}
	json.Unmarshal(w.Body.Bytes(), &commentResp)
	if len(commentResp.Comment.UpvotedBy) != 1 {
		t.Errorf("Expected upvotedBy [alice], got %v", commentResp.Comment.UpvotedBy)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"create user without username", "POST", "/users", `{}`, http.StatusBadRequest},
		{"get unknown user", "GET", "/users/ghost", "", http.StatusNotFound},
		{"create article missing fields", "POST", "/articles", `{"article":{"title":"T"}}`, http.StatusBadRequest},
		{"create article unknown author", "POST", "/articles", `{"article":{"title":"T","url":"http://x","username":"ghost"}}`, http.StatusBadRequest},
		{"create article empty body", "POST", "/articles", `{}`, http.StatusBadRequest},
		{"get article bad id", "GET", "/articles/abc", "", http.StatusBadRequest},
		{"get article negative id", "GET", "/articles/-1", "", http.StatusBadRequest},
		{"get absent article", "GET", "/articles/99", "", http.StatusNotFound},
		{"update absent article", "PUT", "/articles/99", `{"article":{"title":"x"}}`, http.StatusNotFound},
		{"update article empty body", "PUT", "/articles/1", `{}`, http.StatusBadRequest},
		{"delete absent article", "DELETE", "/articles/99", "", http.StatusNotFound},
		{"vote absent article", "PUT", "/articles/99/upvote", `{"username":"alice"}`, http.StatusBadRequest},
		{"vote unknown user", "PUT", "/articles/1/upvote", `{"username":"ghost"}`, http.StatusBadRequest},
		{"create comment unknown article", "POST", "/comments", `{"comment":{"body":"hi","username":"alice","articleId":99}}`, http.StatusBadRequest},
		{"get absent comment", "GET", "/comments/99", "", http.StatusNotFound},
		{"update absent comment", "PUT", "/comments/99", `{"comment":{"body":"x"}}`, http.StatusNotFound},
		{"delete absent comment", "DELETE", "/comments/99", "", http.StatusNotFound},
		{"vote absent comment", "PUT", "/comments/99/upvote", `{"username":"alice"}`, http.StatusBadRequest},
	}

	router, st := setupTestRouter(t)
	st.CreateUser("alice")
	st.CreateArticle("T", "http://x", "alice")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, tt.method, tt.path, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, "OPTIONS", "/articles", "")

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for OPTIONS, got %d", w.Code)
	}

	allowOrigin := w.Header().Get("Access-Control-Allow-Origin")
	if allowOrigin != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin '*', got '%s'", allowOrigin)
	}

	allowMethods := w.Header().Get("Access-Control-Allow-Methods")
	if allowMethods == "" {
		t.Error("Expected Access-Control-Allow-Methods header")
	}
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, "GET", "/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated X-Request-ID header")
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("Expected X-Request-ID to be echoed, got %q", got)
	}
}

func TestGetUser_ResolvesAuthoredEntities(t *testing.T) {
	router, st := setupTestRouter(t)
	st.CreateUser("alice")
	st.CreateArticle("T", "http://x", "alice")
	st.CreateComment("hi", "alice", 1)

	w := doRequest(router, "GET", "/users/alice", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response models.UserResponse
	json.Unmarshal(w.Body.Bytes(), &response)

	if len(response.UserArticles) != 1 {
		t.Errorf("Expected 1 resolved article, got %d", len(response.UserArticles))
	}
	if len(response.UserComments) != 1 {
		t.Errorf("Expected 1 resolved comment, got %d", len(response.UserComments))
	}
}
