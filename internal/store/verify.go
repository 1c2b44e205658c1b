package store

import "fmt"

// VerifyIntegrity checks every cross-reference invariant of the live graph
// and returns a description of each violation found. A healthy store
// returns an empty slice. Used by feedctl verify and by tests.
func (s *Store) VerifyIntegrity() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var violations []string
	report := func(format string, args ...interface{}) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	maxArticleID, maxCommentID := 0, 0

	for id, a := range s.articles {
		if id > maxArticleID {
			maxArticleID = id
		}
		author, ok := s.users[a.Username]
		if !ok {
			report("article %d: author %q does not exist", id, a.Username)
		} else if !containsInt(author.ArticleIDs, id) {
			report("article %d: missing from author %q articleIds", id, a.Username)
		}
		for _, cid := range a.CommentIDs {
			c, ok := s.comments[cid]
			if !ok {
				report("article %d: commentIds references dead comment %d", id, cid)
			} else if c.ArticleID != id {
				report("article %d: comment %d belongs to article %d", id, cid, c.ArticleID)
			}
		}
		reportVoteOverlap(report, "article", id, a.UpvotedBy, a.DownvotedBy)
	}

	for id, c := range s.comments {
		if id > maxCommentID {
			maxCommentID = id
		}
		author, ok := s.users[c.Username]
		if !ok {
			report("comment %d: author %q does not exist", id, c.Username)
		} else if !containsInt(author.CommentIDs, id) {
			report("comment %d: missing from author %q commentIds", id, c.Username)
		}
		a, ok := s.articles[c.ArticleID]
		if !ok {
			report("comment %d: article %d does not exist", id, c.ArticleID)
		} else if !containsInt(a.CommentIDs, id) {
			report("comment %d: missing from article %d commentIds", id, c.ArticleID)
		}
		reportVoteOverlap(report, "comment", id, c.UpvotedBy, c.DownvotedBy)
	}

	for name, u := range s.users {
		for _, aid := range u.ArticleIDs {
			a, ok := s.articles[aid]
			if !ok {
				report("user %q: articleIds references dead article %d", name, aid)
			} else if a.Username != name {
				report("user %q: articleIds claims article %d owned by %q", name, aid, a.Username)
			}
		}
		for _, cid := range u.CommentIDs {
			c, ok := s.comments[cid]
			if !ok {
				report("user %q: commentIds references dead comment %d", name, cid)
			} else if c.Username != name {
				report("user %q: commentIds claims comment %d owned by %q", name, cid, c.Username)
			}
		}
	}

	if s.nextArticleID <= maxArticleID {
		report("nextArticleId %d is not past max live article id %d", s.nextArticleID, maxArticleID)
	}
	if s.nextCommentID <= maxCommentID {
		report("nextCommentId %d is not past max live comment id %d", s.nextCommentID, maxCommentID)
	}

	return violations
}

func reportVoteOverlap(report func(string, ...interface{}), kind string, id int, up, down []string) {
	for _, name := range up {
		if containsName(down, name) {
			report("%s %d: %q appears in both upvotedBy and downvotedBy", kind, id, name)
		}
	}
}

func containsInt(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
