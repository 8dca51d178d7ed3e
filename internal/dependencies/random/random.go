package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides the entropy used to build signature nonces. It can be
// mocked so tests can pin the nonce.
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String draws length characters from alphabet, with repetition
	String(length int, alphabet string) string

	// Sample draws length distinct characters from alphabet, without repetition
	Sample(length int, alphabet string) string
}

// CryptoRandom implements Random using crypto/rand. It is safe for concurrent use.
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// String generates a random string of the given length from the given alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}

// Sample picks length distinct positions of alphabet using a partial
// Fisher-Yates shuffle. length is capped at len(alphabet).
func (r *CryptoRandom) Sample(length int, alphabet string) string {
	pool := []byte(alphabet)
	if length > len(pool) {
		length = len(pool)
	}
	if length <= 0 {
		return ""
	}
	for i := 0; i < length; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return string(pool[:length])
}
