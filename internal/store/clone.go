package store

import "github.com/content-feed-api/internal/models"

// Entities handed out by the store are deep copies: callers may serialize
// them while other goroutines mutate the live graph. Slice emptiness is
// preserved so empty lists render as [] rather than null.

func cloneUser(u *models.User) *models.User {
	out := *u
	out.ArticleIDs = cloneInts(u.ArticleIDs)
	out.CommentIDs = cloneInts(u.CommentIDs)
	return &out
}

func cloneArticle(a *models.Article) *models.Article {
	out := *a
	out.CommentIDs = cloneInts(a.CommentIDs)
	out.VoteSets = cloneVoteSets(a.VoteSets)
	return &out
}

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	out.VoteSets = cloneVoteSets(c.VoteSets)
	return &out
}

func cloneVoteSets(v models.VoteSets) models.VoteSets {
	return models.VoteSets{
		UpvotedBy:   cloneStrings(v.UpvotedBy),
		DownvotedBy: cloneStrings(v.DownvotedBy),
	}
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
