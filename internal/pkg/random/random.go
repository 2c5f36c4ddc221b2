// Package random provides uniform selection over finite candidate pools.
// Draws are always made server-side at commit time; an index reported by a
// caller is never trusted.
package random

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var ErrEmptyPool = errors.New("empty candidate pool")

// Selector picks an index in [0, n). Implementations must be uniform.
type Selector interface {
	IntN(n int) (int, error)
}

type CryptoSelector struct{}

func NewCryptoSelector() Selector {
	return &CryptoSelector{}
}

// crypto/rand.Int is uniform over [0, n), no modulo bias.
func (s *CryptoSelector) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyPool
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Pick returns one element of candidates chosen uniformly at random.
func Pick[T any](sel Selector, candidates []T) (T, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, ErrEmptyPool
	}
	i, err := sel.IntN(len(candidates))
	if err != nil {
		return zero, err
	}
	return candidates[i], nil
}
