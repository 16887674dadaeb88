package model

import "time"

// RunStatus represents the current state of an outreach run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one end-to-end pipeline execution recorded in run history.
type Run struct {
	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	Keywords  string     `json:"keywords"`
	Locations string     `json:"locations"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final counters of a run.
type RunResult struct {
	Discovered int     `json:"discovered"`
	Processed  int     `json:"processed"`
	Sent       int     `json:"sent"`
	Skipped    int     `json:"skipped"`
	Failed     int     `json:"failed"`
	AvgScore   float64 `json:"avg_score"`
	Error      string  `json:"error,omitempty"`
}
