package model

import (
	"strings"

	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

// FromEvaluation builds the report row for one evaluated password.
func FromEvaluation(password string, ev strength.Evaluation) Result {
	return Result{
		Password:    password,
		Entropy:     ev.Entropy,
		Status:      Status(ev.Verdict.String()),
		Missing:     strength.Labels(ev.Missing),
		Suggestions: ev.Suggestions,
		Strong:      ev.Generated,
	}
}

// MissingText is the report column value: comma-joined labels, or "None".
func (r Result) MissingText() string {
	if len(r.Missing) == 0 {
		return strength.NoneMissing
	}
	return strings.Join(r.Missing, ", ")
}
