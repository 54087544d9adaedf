package report

import (
	"math"
	"sort"

	"github.com/Andrei-Barwood/pwaudit/internal/model"
	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

type Recommendation struct {
	Priority string `json:"priority"`
	Title    string `json:"title"`
	Action   string `json:"action"`
	Count    int    `json:"count"`
}

var classActions = map[string]string{
	strength.Lowercase.Label(): "Add at least one lowercase letter.",
	strength.Uppercase.Label(): "Add at least one uppercase letter.",
	strength.Digit.Label():     "Add at least one digit.",
	strength.Symbol.Label():    "Add at least one special character.",
}

const lengthTitle = "weak passwords"

// BuildRecommendations groups results by what they lack. A group's priority
// follows the weakest verdict among its members.
func BuildRecommendations(results []model.Result) []Recommendation {
	type bucket struct {
		weakest model.Status
		action  string
		count   int
	}

	buckets := map[string]*bucket{}
	add := func(title, action string, status model.Status) {
		entry, ok := buckets[title]
		if !ok {
			entry = &bucket{weakest: status, action: action}
			buckets[title] = entry
		}
		if statusRank(status) < statusRank(entry.weakest) {
			entry.weakest = status
		}
		entry.count++
	}

	for _, r := range results {
		if r.Status == model.StatusWeak {
			add(lengthTitle, "Replace with a longer password, or use the generated suggestion.", r.Status)
		}
		for _, m := range r.Missing {
			action, ok := classActions[m]
			if !ok {
				action = "Add the missing character class: " + m
			}
			add("missing "+m, action, r.Status)
		}
	}

	out := make([]Recommendation, 0, len(buckets))
	for title, b := range buckets {
		out = append(out, Recommendation{
			Priority: priorityFromStatus(b.weakest),
			Title:    title,
			Action:   b.action,
			Count:    b.count,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri := priorityRank(out[i].Priority)
		rj := priorityRank(out[j].Priority)
		if ri != rj {
			return ri > rj
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Title < out[j].Title
	})

	return out
}

type Summary struct {
	Total       int     `json:"total"`
	Weak        int     `json:"weak"`
	Moderate    int     `json:"moderate"`
	Strong      int     `json:"strong"`
	MinEntropy  float64 `json:"min_entropy"`
	MaxEntropy  float64 `json:"max_entropy"`
	MeanEntropy float64 `json:"mean_entropy"`
}

func Summarize(results []model.Result) Summary {
	s := Summary{Total: len(results)}
	if len(results) == 0 {
		return s
	}

	s.MinEntropy = math.Inf(1)
	s.MaxEntropy = math.Inf(-1)
	var sum float64
	for _, r := range results {
		switch r.Status {
		case model.StatusWeak:
			s.Weak++
		case model.StatusModerate:
			s.Moderate++
		case model.StatusStrong:
			s.Strong++
		}
		s.MinEntropy = math.Min(s.MinEntropy, r.Entropy)
		s.MaxEntropy = math.Max(s.MaxEntropy, r.Entropy)
		sum += r.Entropy
	}
	s.MeanEntropy = sum / float64(len(results))
	return s
}

func statusRank(s model.Status) int {
	switch s {
	case model.StatusWeak:
		return 0
	case model.StatusModerate:
		return 1
	default:
		return 2
	}
}

func priorityFromStatus(s model.Status) string {
	switch s {
	case model.StatusWeak:
		return "P1"
	case model.StatusModerate:
		return "P2"
	default:
		return "P3"
	}
}

func priorityRank(p string) int {
	switch p {
	case "P1":
		return 3
	case "P2":
		return 2
	default:
		return 1
	}
}
