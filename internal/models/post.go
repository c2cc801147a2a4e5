package models

import "time"

// Post is immutable once stored.
type Post struct {
	ID       int64  `json:"id"`
	AuthorID int64  `json:"authorId"`
	Author   string `json:"author"` // username of the author, filled on reads
	Body     string `json:"body"`
	// Language is an ISO code of the body or empty when detection failed.
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}
