package models

// Comment represents a comment on an article. Both the owning user and the
// owning article must exist when the comment is created; owners are never
// reassigned.
type Comment struct {
	ID        int    `json:"id"`
	Body      string `json:"body"`
	Username  string `json:"username"` // the author
	ArticleID int    `json:"articleId"`
	VoteSets
}

// CommentPayload carries the client-supplied comment fields for create and
// update requests. On update only the body may change.
type CommentPayload struct {
	Body      string `json:"body"`
	Username  string `json:"username"`
	ArticleID int    `json:"articleId"`
}

// CommentEnvelope is the body of POST /comments and PUT /comments/:id.
type CommentEnvelope struct {
	Comment *CommentPayload `json:"comment"`
}
