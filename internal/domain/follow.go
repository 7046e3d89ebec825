package domain

import "time"

// Follow is a directed edge from one user to another.
// Unique per (follower, followee); self-follows are rejected at the service.
type Follow struct {
	ID         string    `json:"id"`
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
