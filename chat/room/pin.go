package room

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// GeneratePIN returns a 6-digit numeric pin in [100000, 999999] for which
// taken reports false, re-drawing on collision. The keyspace is large
// relative to the expected number of concurrent rooms, so unbounded retries
// are acceptable. Callers must invoke this against current registry state;
// the registry does so while holding its lock.
func GeneratePIN(taken func(pin string) bool) string {
	for {
		pin := strconv.Itoa(100000 + rand.IntN(900000))
		if !taken(pin) {
			return pin
		}
	}
}

// NewMessageID returns a message identifier unique within the process
// lifetime: milliseconds since epoch plus a random suffix. Collisions are
// treated as negligible rather than impossible.
func NewMessageID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + uuid.NewString()[:8]
}
