package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Not found errors
	ErrTaskNotFound    = errors.New("task not found")
	ErrBlockerNotFound = errors.New("blocker not found")

	// GitHub stats errors
	ErrRepoNotConfigured = errors.New("GitHub repo not configured")
	ErrInvalidRepoURL    = errors.New("Invalid GitHub URL")
	ErrGitHubUpstream    = errors.New("Failed to fetch GitHub data")
)

// Context keys for error values
const (
	TaskIDKey    = "task_id"
	BlockerIDKey = "blocker_id"
)
