package strength

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

const (
	// DefaultTargetLength is the length of suggestions offered for weak passwords.
	DefaultTargetLength = 20

	maxCoverageAttempts = 1000
)

var ErrCoverageUnreachable = errors.New("generated password did not cover every class")

// Generate draws n characters independently and uniformly from Alphabet.
// The result may lack any given class. A nil r means crypto/rand.Reader.
func Generate(r io.Reader, n int) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	if n <= 0 {
		return "", nil
	}

	size := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(r, size)
		if err != nil {
			return "", fmt.Errorf("read random source: %w", err)
		}
		buf[i] = Alphabet[idx.Int64()]
	}
	return string(buf), nil
}

// GenerateCovering redraws until every class is present, so the result is
// uniform over covering strings of length n. n must be at least 4.
func GenerateCovering(r io.Reader, n int) (string, error) {
	if n < len(Classes) {
		return "", fmt.Errorf("length %d cannot cover %d classes", n, len(Classes))
	}
	for attempt := 0; attempt < maxCoverageAttempts; attempt++ {
		s, err := Generate(r, n)
		if err != nil {
			return "", err
		}
		if Scan(s).Full() {
			return s, nil
		}
	}
	return "", ErrCoverageUnreachable
}
