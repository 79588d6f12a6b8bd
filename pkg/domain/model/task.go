package model

import (
	"time"

	"github.com/secmon-lab/pulseboard/pkg/domain/types"
)

// Task represents a unit of work tracked on the board
type Task struct {
	ID          int64            `json:"id" firestore:"id"`
	Title       string           `json:"title" firestore:"title"`
	Description string           `json:"description" firestore:"description"`
	Status      types.TaskStatus `json:"status" firestore:"status"`
	Owner       string           `json:"owner" firestore:"owner"`
	Priority    types.Priority   `json:"priority" firestore:"priority"`
	CreatedAt   time.Time        `json:"created_at" firestore:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" firestore:"updated_at"`
}
