package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Shuffle performs a Fisher-Yates shuffle in place, drawing indexes from intn.
func Shuffle[T any](slice []T, intn func(n int) int) {
	for i := len(slice) - 1; i > 0; i-- {
		j := intn(i + 1)
		slice[i], slice[j] = slice[j], slice[i]
	}
}

// Intn returns a uniform value in [0, n) from crypto/rand.
func Intn(n int) (int, error) {
	jBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return int(jBig.Int64()), nil
}

// MustIntn is Intn for callers that cannot proceed without entropy.
func MustIntn(n int) int {
	v, err := Intn(n)
	if err != nil {
		panic(err)
	}
	return v
}
