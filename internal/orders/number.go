package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const orderNumberPrefix = "ORD-"

// newOrderNumber builds a human-readable order number from the millisecond
// clock plus a random disambiguator. Uniqueness is still enforced by the
// database; callers retry on a collision.
func newOrderNumber(now time.Time) (string, error) {
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("order number randomness: %w", err)
	}
	return fmt.Sprintf("%s%d%04d", orderNumberPrefix, now.UnixMilli(), suffix.Int64()), nil
}
