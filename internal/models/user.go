package models

// User represents a registered author. Users are created once and never
// deleted; the username is the identifier and is immutable.
type User struct {
	Username   string `json:"username"`
	ArticleIDs []int  `json:"articleIds"`
	CommentIDs []int  `json:"commentIds"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// UserResponse wraps a user together with its resolved articles and comments.
type UserResponse struct {
	User         *User      `json:"user"`
	UserArticles []*Article `json:"userArticles"`
	UserComments []*Comment `json:"userComments"`
}
