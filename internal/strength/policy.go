package strength

import (
	"fmt"
	"strings"
)

type Verdict int

const (
	Weak Verdict = iota
	Moderate
	Strong
)

func (v Verdict) String() string {
	switch v {
	case Weak:
		return "weak"
	case Moderate:
		return "moderate"
	case Strong:
		return "strong"
	default:
		return "unknown"
	}
}

// Title is the capitalised label used by interactive output.
func (v Verdict) Title() string {
	s := v.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseVerdict accepts a label in any case.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weak":
		return Weak, nil
	case "moderate":
		return Moderate, nil
	case "strong":
		return Strong, nil
	default:
		return Weak, fmt.Errorf("unknown verdict: %q", s)
	}
}

// Policy maps a password's length and entropy to a verdict.
type Policy interface {
	Name() string
	Classify(length int, entropy float64) Verdict
	// LengthAdvice returns the length-related suggestion, or "" when length is fine.
	LengthAdvice(length int, entropy float64) string
}

const (
	PolicyEntropy = "entropy"
	PolicyLength  = "length"

	DefaultEntropyThreshold = 60.0
	DefaultMinLength        = 6
	DefaultGoodLength       = 10
)

const (
	adviceTooShort = "Password is too short."
	adviceLonger   = "Make it longer for better security."
)

// EntropyPolicy is binary: Weak below Threshold bits, otherwise Strong.
// MinLength only picks the wording of the length advice for weak passwords.
type EntropyPolicy struct {
	Threshold float64
	MinLength int
}

func (EntropyPolicy) Name() string { return PolicyEntropy }

func (p EntropyPolicy) Classify(_ int, entropy float64) Verdict {
	if entropy < p.threshold() {
		return Weak
	}
	return Strong
}

func (p EntropyPolicy) LengthAdvice(length int, entropy float64) string {
	if entropy >= p.threshold() {
		return ""
	}
	shortest := p.MinLength
	if shortest <= 0 {
		shortest = DefaultMinLength
	}
	if length < shortest {
		return adviceTooShort
	}
	return adviceLonger
}

func (p EntropyPolicy) threshold() float64 {
	if p.Threshold <= 0 {
		return DefaultEntropyThreshold
	}
	return p.Threshold
}

// LengthPolicy grades on length alone: Weak below Min, Moderate below Good, otherwise Strong.
type LengthPolicy struct {
	Min  int
	Good int
}

func (LengthPolicy) Name() string { return PolicyLength }

func (p LengthPolicy) Classify(length int, _ float64) Verdict {
	shortest, good := p.bounds()
	switch {
	case length < shortest:
		return Weak
	case length < good:
		return Moderate
	default:
		return Strong
	}
}

func (p LengthPolicy) LengthAdvice(length int, entropy float64) string {
	switch p.Classify(length, entropy) {
	case Weak:
		return adviceTooShort
	case Moderate:
		return adviceLonger
	default:
		return ""
	}
}

func (p LengthPolicy) bounds() (int, int) {
	shortest, good := p.Min, p.Good
	if shortest <= 0 {
		shortest = DefaultMinLength
	}
	if good <= shortest {
		good = shortest + DefaultGoodLength - DefaultMinLength
	}
	return shortest, good
}

// PolicyByName resolves "entropy" or "length" to a policy with default thresholds.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyEntropy:
		return EntropyPolicy{Threshold: DefaultEntropyThreshold}, nil
	case PolicyLength:
		return LengthPolicy{Min: DefaultMinLength, Good: DefaultGoodLength}, nil
	default:
		return nil, fmt.Errorf("unknown policy: %q (want entropy|length)", name)
	}
}
