package model

// Setting keys used by the application
const (
	SettingGitHubRepo = "github_repo"
)

// SettingEntry is a single key/value pair of the board settings store.
// Writes have upsert semantics: an existing key is replaced.
type SettingEntry struct {
	Key   string `json:"key" firestore:"key"`
	Value string `json:"value" firestore:"value"`
}
