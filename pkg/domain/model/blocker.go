package model

import "time"

// Blocker represents an impediment reported by a team member.
// TaskID is a weak reference: it may point at a task that no longer exists,
// or be nil when the blocker is not tied to a specific task.
type Blocker struct {
	ID          int64     `json:"id" firestore:"id"`
	TaskID      *int64    `json:"task_id" firestore:"task_id"`
	Description string    `json:"description" firestore:"description"`
	Reporter    string    `json:"reporter" firestore:"reporter"`
	Resolved    bool      `json:"resolved" firestore:"resolved"`
	CreatedAt   time.Time `json:"created_at" firestore:"created_at"`
}
