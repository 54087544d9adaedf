// Package strength scores passwords: character-class coverage, an entropy
// estimate, a verdict under a selectable policy, human-readable suggestions,
// and a random replacement when the verdict is weak.
//
// Nothing here logs or retains the passwords it is given.
package strength

import (
	"io"
)

type Options struct {
	Policy       Policy
	TargetLength int
	// EnsureCoverage makes suggestions contain every class. Off by default,
	// which keeps plain independent draws.
	EnsureCoverage bool
	Random         io.Reader
}

type Evaluator struct {
	opts Options
}

type Evaluation struct {
	Length      int
	Entropy     float64
	Verdict     Verdict
	Missing     []Class
	Suggestions []string
	Generated   string
}

func New(opts Options) *Evaluator {
	if opts.Policy == nil {
		opts.Policy = EntropyPolicy{Threshold: DefaultEntropyThreshold}
	}
	if opts.TargetLength <= 0 {
		opts.TargetLength = DefaultTargetLength
	}
	return &Evaluator{opts: opts}
}

func (e *Evaluator) Policy() Policy { return e.opts.Policy }

func (e *Evaluator) TargetLength() int { return e.opts.TargetLength }

// Evaluate never fails on its input. An error can only come from the random
// source while generating a suggestion.
func (e *Evaluator) Evaluate(password string) (Evaluation, error) {
	cov := Scan(password)
	length := Length(password)
	entropy := entropyOf(cov, length)

	ev := Evaluation{
		Length:  length,
		Entropy: entropy,
		Verdict: e.opts.Policy.Classify(length, entropy),
		Missing: cov.Missing(),
	}
	ev.Suggestions = suggestions(e.opts.Policy, cov, length, entropy)

	if ev.Verdict == Weak {
		generated, err := e.Suggest()
		if err != nil {
			return ev, err
		}
		ev.Generated = generated
	}
	return ev, nil
}

// Suggest produces a replacement password at the configured target length.
func (e *Evaluator) Suggest() (string, error) {
	if e.opts.EnsureCoverage {
		return GenerateCovering(e.opts.Random, e.opts.TargetLength)
	}
	return Generate(e.opts.Random, e.opts.TargetLength)
}

var classAdvice = []struct {
	class Class
	text  string
}{
	{Uppercase, "Add at least one uppercase letter."},
	{Lowercase, "Add at least one lowercase letter."},
	{Digit, "Add at least one digit."},
	{Symbol, "Add at least one special character."},
}

func suggestions(p Policy, cov Coverage, length int, entropy float64) []string {
	var out []string
	if advice := p.LengthAdvice(length, entropy); advice != "" {
		out = append(out, advice)
	}
	for _, a := range classAdvice {
		if !cov.Has(a.class) {
			out = append(out, a.text)
		}
	}
	return out
}
