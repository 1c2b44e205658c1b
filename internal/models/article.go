package models

// VoteSets holds the mutually exclusive upvote/downvote membership lists
// shared by articles and comments. A username appears in at most one of the
// two lists at any time.
type VoteSets struct {
	UpvotedBy   []string `json:"upvotedBy"`
	DownvotedBy []string `json:"downvotedBy"`
}

// Article represents an article in the system. The ID is assigned at
// creation from a store-owned counter and is never reused. CommentIDs is
// maintained exclusively by the store.
type Article struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Username   string `json:"username"` // the author
	CommentIDs []int  `json:"commentIds"`
	VoteSets
}

// ArticlePayload carries the client-supplied article fields for create and
// update requests. On update, empty fields keep the prior value.
type ArticlePayload struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

// ArticleEnvelope is the body of POST /articles and PUT /articles/:id.
type ArticleEnvelope struct {
	Article *ArticlePayload `json:"article"`
}

// ArticleResponse wraps an article together with its resolved comments.
type ArticleResponse struct {
	*Article
	Comments []*Comment `json:"comments"`
}

// VoteRequest is the body of the upvote/downvote endpoints.
type VoteRequest struct {
	Username string `json:"username"`
}
