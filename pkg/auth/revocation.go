package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationList tracks revoked token IDs in Redis. Entries expire with
// the token itself, so the set never grows past the live token window.
// A nil client degrades to accept-all: the session rows in Postgres
// remain the durable source of truth.
type RevocationList struct {
	rdb *redis.Client
}

func NewRevocationList(rdb *redis.Client) *RevocationList {
	return &RevocationList{rdb: rdb}
}

// Revoke marks a token ID as revoked until the given expiry.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if r.rdb == nil {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked. Fails open on
// Redis errors so an outage does not lock every user out.
func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) bool {
	if r.rdb == nil {
		return false
	}
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false
	}
	return n > 0
}
