package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	orderNumberPrefix    = "ORD"
	orderNumberSuffixLen = 9
)

var base36Charset = []byte("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// NewOrderNumber returns a human-readable identifier of the form
// ORD-<epoch millis>-<9 uppercase base36 chars>. Uniqueness is enforced
// by the DB index; the random suffix makes collisions negligible.
func NewOrderNumber(now time.Time) (string, error) {
	suffix, err := randomBase36(orderNumberSuffixLen)
	if err != nil {
		return "", fmt.Errorf("order number entropy: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, now.UnixMilli(), suffix), nil
}

func randomBase36(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = base36Charset[int(b)%len(base36Charset)]
	}
	return string(out), nil
}
