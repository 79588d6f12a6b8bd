package model

// Snapshot is a point-in-time view of the board: the baseline a client
// fetches at session start, and the input to the narrative summarizer.
type Snapshot struct {
	Tasks    []*Task           `json:"tasks"`
	Blockers []*Blocker        `json:"blockers"`
	Activity []*ActivityRecord `json:"activity"`
	Settings map[string]string `json:"settings"`
}
