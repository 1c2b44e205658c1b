package store

import (
	"fmt"

	"github.com/content-feed-api/internal/models"
)

// Direction is the side a vote lands on.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection maps the route suffix ("upvote"/"downvote") to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "upvote":
		return Up, nil
	case "downvote":
		return Down, nil
	default:
		return 0, fmt.Errorf("unknown vote direction %q: %w", s, ErrInvalidInput)
	}
}

// applyVote toggles username's membership between the two vote lists. It is
// identical for articles and comments and operates on the shared VoteSets
// by reference. Repeating a direction is a no-op; voting the opposite
// direction moves the membership in a single call, so a username is never
// in both lists at once.
func applyVote(v *models.VoteSets, username string, direction Direction) {
	switch direction {
	case Up:
		v.DownvotedBy = removeName(v.DownvotedBy, username)
		if !containsName(v.UpvotedBy, username) {
			v.UpvotedBy = append(v.UpvotedBy, username)
		}
	case Down:
		v.UpvotedBy = removeName(v.UpvotedBy, username)
		if !containsName(v.DownvotedBy, username) {
			v.DownvotedBy = append(v.DownvotedBy, username)
		}
	}
}

func emptyVoteSets() models.VoteSets {
	return models.VoteSets{UpvotedBy: []string{}, DownvotedBy: []string{}}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func removeName(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}
