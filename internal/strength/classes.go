package strength

import (
	"strings"
)

// Punctuation is the fixed 32-character ASCII symbol set counted as the symbol class.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

const (
	lowercaseSet = "abcdefghijklmnopqrstuvwxyz"
	uppercaseSet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitSet     = "0123456789"
)

// Alphabet is the union alphabet suggestions are drawn from.
const Alphabet = lowercaseSet + uppercaseSet + digitSet + Punctuation

type Class int

const (
	Lowercase Class = iota
	Uppercase
	Digit
	Symbol
)

// Classes lists every class in reporting order.
var Classes = []Class{Lowercase, Uppercase, Digit, Symbol}

func (c Class) Label() string {
	switch c {
	case Lowercase:
		return "lowercase (a-z)"
	case Uppercase:
		return "uppercase (A-Z)"
	case Digit:
		return "digits (0-9)"
	case Symbol:
		return "special characters (!@#$ etc.)"
	default:
		return "unknown"
	}
}

func (c Class) poolSize() int {
	switch c {
	case Lowercase, Uppercase:
		return 26
	case Digit:
		return 10
	case Symbol:
		return len(Punctuation)
	default:
		return 0
	}
}

// Coverage records which character classes appear in a password.
type Coverage struct {
	Lower  bool
	Upper  bool
	Digit  bool
	Symbol bool
}

// Scan reads the password once. Only ASCII characters count towards a class.
func Scan(password string) Coverage {
	var c Coverage
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			c.Lower = true
		case r >= 'A' && r <= 'Z':
			c.Upper = true
		case r >= '0' && r <= '9':
			c.Digit = true
		case r < 0x80 && strings.ContainsRune(Punctuation, r):
			c.Symbol = true
		}
	}
	return c
}

func (c Coverage) Has(class Class) bool {
	switch class {
	case Lowercase:
		return c.Lower
	case Uppercase:
		return c.Upper
	case Digit:
		return c.Digit
	case Symbol:
		return c.Symbol
	default:
		return false
	}
}

func (c Coverage) Full() bool {
	return c.Lower && c.Upper && c.Digit && c.Symbol
}

// PoolSize is the estimated alphabet size implied by the covered classes.
func (c Coverage) PoolSize() int {
	pool := 0
	for _, class := range Classes {
		if c.Has(class) {
			pool += class.poolSize()
		}
	}
	return pool
}

// Missing returns the absent classes in reporting order.
func (c Coverage) Missing() []Class {
	var missing []Class
	for _, class := range Classes {
		if !c.Has(class) {
			missing = append(missing, class)
		}
	}
	return missing
}

// MissingClasses returns the classes absent from password.
func MissingClasses(password string) []Class {
	return Scan(password).Missing()
}

// Labels maps classes to their descriptive labels.
func Labels(classes []Class) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		out = append(out, c.Label())
	}
	return out
}

// JoinMissing renders missing classes the way reports show them: comma-joined, or "None".
func JoinMissing(classes []Class) string {
	if len(classes) == 0 {
		return NoneMissing
	}
	return strings.Join(Labels(classes), ", ")
}

// NoneMissing is the sentinel shown when every class is present.
const NoneMissing = "None"
