package strength

import (
	"math"
	"unicode/utf8"
)

// ComputeEntropy estimates the password's information content in bits as
// length × log2(pool). A password that covers no class scores 0.
func ComputeEntropy(password string) float64 {
	return entropyOf(Scan(password), Length(password))
}

// Length counts code points, not bytes.
func Length(password string) int {
	return utf8.RuneCountInString(password)
}

func entropyOf(c Coverage, length int) float64 {
	pool := c.PoolSize()
	if pool == 0 {
		return 0
	}
	return float64(length) * math.Log2(float64(pool))
}
