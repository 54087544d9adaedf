package model

import "time"

type Status string

const (
	StatusWeak     Status = "weak"
	StatusModerate Status = "moderate"
	StatusStrong   Status = "strong"
)

// Result is one evaluated password as reports show it.
type Result struct {
	Password    string   `json:"password"`
	Entropy     float64  `json:"entropy"`
	Status      Status   `json:"status"`
	Missing     []string `json:"missing,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Strong      string   `json:"strong_password,omitempty"`
}

type BatchResult struct {
	ID          string    `json:"id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source,omitempty"`
	Policy      string    `json:"policy,omitempty"`
	Results     []Result  `json:"results"`
	Notes       []string  `json:"notes,omitempty"`
}
