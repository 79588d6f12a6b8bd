package model

import "time"

// SystemUser is recorded on activity entries when no acting user is known
const SystemUser = "System"

// ActivityRecord is one append-only entry of the board activity feed.
// Records are never mutated or deleted after insertion.
type ActivityRecord struct {
	ID        int64     `json:"id" firestore:"id"`
	User      string    `json:"user" firestore:"user"`
	Action    string    `json:"action" firestore:"action"`
	Details   string    `json:"details" firestore:"details"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}
