package models

// Snapshot is a full, serializable copy of the store's state. Integer map
// keys are rendered as strings by encoding/json, so the persisted form keys
// articles and comments by id-as-string as expected by existing files.
type Snapshot struct {
	Users         map[string]*User `json:"users"`
	Articles      map[int]*Article `json:"articles"`
	Comments      map[int]*Comment `json:"comments"`
	NextArticleID int              `json:"nextArticleId"`
	NextCommentID int              `json:"nextCommentId"`
}
