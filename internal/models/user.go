package models

import "time"

// User is a registered author.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AboutMe      string    `json:"aboutMe"`
	LastSeen     time.Time `json:"lastSeen"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Follow is a directed edge: FollowerID follows FollowedID.
// The pair is unique and the two ids never match.
type Follow struct {
	FollowerID int64     `json:"followerId"`
	FollowedID int64     `json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`
}
