package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/content-feed-api/internal/models"
)

// Store owns the three live collections (users, articles, comments) plus the
// monotonic id counters, and enforces referential integrity on every
// mutation. Collections are keyed by id; cross-references between entities
// are plain id values and are mutated only through the child-ref helpers
// below, never by callers.
//
// A single mutex guards all operations: handlers run on concurrent
// goroutines and none of the invariants survive interleaved mutation.
// Every operation validates fully before mutating, so a failed call never
// commits a partial change.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	articles      map[int]*models.Article
	comments      map[int]*models.Comment
	nextArticleID int
	nextCommentID int
}

// New creates an empty Store with counters starting at 1.
func New() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		articles:      make(map[int]*models.Article),
		comments:      make(map[int]*models.Comment),
		nextArticleID: 1,
		nextCommentID: 1,
	}
}

// CreateUser registers a user. Creating an existing username is not an
// error: the existing user is returned unchanged and created is false.
func (s *Store) CreateUser(username string) (user *models.User, created bool, err error) {
	if username == "" {
		return nil, false, fmt.Errorf("username is required: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[username]; ok {
		return cloneUser(existing), false, nil
	}

	u := &models.User{
		Username:   username,
		ArticleIDs: []int{},
		CommentIDs: []int{},
	}
	s.users[username] = u

	return cloneUser(u), true, nil
}

// GetUser returns a user together with its authored articles and comments,
// resolved in the order the id lists record them.
func (s *Store) GetUser(username string) (*models.User, []*models.Article, []*models.Comment, error) {
	if username == "" {
		return nil, nil, nil, fmt.Errorf("username is required: %w", ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, nil, nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}

	articles := make([]*models.Article, 0, len(u.ArticleIDs))
	for _, id := range u.ArticleIDs {
		if a, ok := s.articles[id]; ok {
			articles = append(articles, cloneArticle(a))
		}
	}
	comments := make([]*models.Comment, 0, len(u.CommentIDs))
	for _, id := range u.CommentIDs {
		if c, ok := s.comments[id]; ok {
			comments = append(comments, cloneComment(c))
		}
	}

	return cloneUser(u), articles, comments, nil
}

// ListArticles returns all live articles ordered by id descending.
func (s *Store) ListArticles() []*models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := make([]*models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		articles = append(articles, cloneArticle(a))
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].ID > articles[j].ID
	})

	return articles
}

// CreateArticle creates an article owned by an existing user. The id is the
// next counter value; the counter only ever increments, even across deletes.
func (s *Store) CreateArticle(title, url, username string) (*models.Article, error) {
	if title == "" || url == "" || username == "" {
		return nil, fmt.Errorf("title, url and username are required: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	author, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("unknown author %q: %w", username, ErrInvalidInput)
	}

	a := &models.Article{
		ID:         s.nextArticleID,
		Title:      title,
		URL:        url,
		Username:   username,
		CommentIDs: []int{},
		VoteSets:   emptyVoteSets(),
	}
	s.nextArticleID++
	s.articles[a.ID] = a
	author.ArticleIDs = addChildRef(author.ArticleIDs, a.ID)

	return cloneArticle(a), nil
}

// GetArticle returns an article together with its comments resolved from
// CommentIDs.
func (s *Store) GetArticle(id int) (*models.Article, []*models.Comment, error) {
	if id <= 0 {
		return nil, nil, fmt.Errorf("article id must be positive: %w", ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}

	comments := make([]*models.Comment, 0, len(a.CommentIDs))
	for _, cid := range a.CommentIDs {
		if c, ok := s.comments[cid]; ok {
			comments = append(comments, cloneComment(c))
		}
	}

	return cloneArticle(a), comments, nil
}

// UpdateArticle overwrites title and url from the patch. Empty patch fields
// keep the prior value; existing clients rely on that, so an intentional
// clear-to-empty is not possible.
func (s *Store) UpdateArticle(id int, patch models.ArticlePayload) (*models.Article, error) {
	if id <= 0 {
		return nil, fmt.Errorf("article id must be positive: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}

	if patch.Title != "" {
		a.Title = patch.Title
	}
	if patch.URL != "" {
		a.URL = patch.URL
	}

	return cloneArticle(a), nil
}

// DeleteArticle removes an article and cascades to all of its comments:
// each child comment is removed from the comment collection and from its
// author's CommentIDs, then the article id is removed from its author's
// ArticleIDs. Deleting an absent article is a not-found error.
func (s *Store) DeleteArticle(id int) error {
	if id <= 0 {
		return fmt.Errorf("article id must be positive: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return fmt.Errorf("article %d: %w", id, ErrNotFound)
	}

	for _, cid := range a.CommentIDs {
		c, ok := s.comments[cid]
		if !ok {
			continue
		}
		delete(s.comments, cid)
		if author, ok := s.users[c.Username]; ok {
			author.CommentIDs = removeChildRef(author.CommentIDs, cid)
		}
	}

	if author, ok := s.users[a.Username]; ok {
		author.ArticleIDs = removeChildRef(author.ArticleIDs, id)
	}
	delete(s.articles, id)

	return nil
}

// VoteArticle toggles a user's vote on an article. Both the article and the
// voting user must exist.
func (s *Store) VoteArticle(id int, username string, direction Direction) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, ErrInvalidInput)
	}
	if _, ok := s.users[username]; !ok {
		return nil, fmt.Errorf("unknown user %q: %w", username, ErrInvalidInput)
	}

	applyVote(&a.VoteSets, username, direction)

	return cloneArticle(a), nil
}

// CreateComment creates a comment owned by an existing user and attached to
// an existing article, registering the new id in both parents' lists.
func (s *Store) CreateComment(body, username string, articleID int) (*models.Comment, error) {
	if body == "" || username == "" || articleID <= 0 {
		return nil, fmt.Errorf("body, username and articleId are required: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	author, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("unknown author %q: %w", username, ErrInvalidInput)
	}
	article, ok := s.articles[articleID]
	if !ok {
		return nil, fmt.Errorf("unknown article %d: %w", articleID, ErrInvalidInput)
	}

	c := &models.Comment{
		ID:        s.nextCommentID,
		Body:      body,
		Username:  username,
		ArticleID: articleID,
		VoteSets:  emptyVoteSets(),
	}
	s.nextCommentID++
	s.comments[c.ID] = c
	article.CommentIDs = addChildRef(article.CommentIDs, c.ID)
	author.CommentIDs = addChildRef(author.CommentIDs, c.ID)

	return cloneComment(c), nil
}

// GetComment returns a single comment.
func (s *Store) GetComment(id int) (*models.Comment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("comment id must be positive: %w", ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}

	return cloneComment(c), nil
}

// UpdateComment overwrites the body from the patch. An empty patch body
// keeps the prior value.
func (s *Store) UpdateComment(id int, patch models.CommentPayload) (*models.Comment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("comment id must be positive: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}

	if patch.Body != "" {
		c.Body = patch.Body
	}

	return cloneComment(c), nil
}

// DeleteComment removes a comment from the collection, from its article's
// CommentIDs and from its author's CommentIDs. No cascade below comments.
func (s *Store) DeleteComment(id int) error {
	if id <= 0 {
		return fmt.Errorf("comment id must be positive: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	article, ok := s.articles[c.ArticleID]
	if !ok {
		return fmt.Errorf("article %d for comment %d: %w", c.ArticleID, id, ErrNotFound)
	}

	delete(s.comments, id)
	article.CommentIDs = removeChildRef(article.CommentIDs, id)
	if author, ok := s.users[c.Username]; ok {
		author.CommentIDs = removeChildRef(author.CommentIDs, id)
	}

	return nil
}

// VoteComment toggles a user's vote on a comment. Both the comment and the
// voting user must exist.
func (s *Store) VoteComment(id int, username string, direction Direction) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, ErrInvalidInput)
	}
	if _, ok := s.users[username]; !ok {
		return nil, fmt.Errorf("unknown user %q: %w", username, ErrInvalidInput)
	}

	applyVote(&c.VoteSets, username, direction)

	return cloneComment(c), nil
}

// Counts returns the number of live users, articles and comments.
func (s *Store) Counts() (users, articles, comments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users), len(s.articles), len(s.comments)
}

// Snapshot returns a full deep copy of the store's state for persistence.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &models.Snapshot{
		Users:         make(map[string]*models.User, len(s.users)),
		Articles:      make(map[int]*models.Article, len(s.articles)),
		Comments:      make(map[int]*models.Comment, len(s.comments)),
		NextArticleID: s.nextArticleID,
		NextCommentID: s.nextCommentID,
	}
	for name, u := range s.users {
		snap.Users[name] = cloneUser(u)
	}
	for id, a := range s.articles {
		snap.Articles[id] = cloneArticle(a)
	}
	for id, c := range s.comments {
		snap.Comments[id] = cloneComment(c)
	}

	return snap
}

// Restore merges a previously-serialized snapshot into the store. Nil
// collections and zero counters in the snapshot leave the corresponding
// in-memory state untouched.
func (s *Store) Restore(snap *models.Snapshot) {
	if snap == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Users != nil {
		s.users = make(map[string]*models.User, len(snap.Users))
		for name, u := range snap.Users {
			s.users[name] = cloneUser(u)
		}
	}
	if snap.Articles != nil {
		s.articles = make(map[int]*models.Article, len(snap.Articles))
		for id, a := range snap.Articles {
			s.articles[id] = cloneArticle(a)
		}
	}
	if snap.Comments != nil {
		s.comments = make(map[int]*models.Comment, len(snap.Comments))
		for id, c := range snap.Comments {
			s.comments[id] = cloneComment(c)
		}
	}
	if snap.NextArticleID > 0 {
		s.nextArticleID = snap.NextArticleID
	}
	if snap.NextCommentID > 0 {
		s.nextCommentID = snap.NextCommentID
	}
}

// addChildRef and removeChildRef are the only way a parent's child-id list
// is mutated; handlers never touch these lists directly.

func addChildRef(ids []int, id int) []int {
	return append(ids, id)
}

func removeChildRef(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
