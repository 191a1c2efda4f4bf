// Package cache stores JSON values for generated job-ad drafts.
package cache

import (
	"context"
	"strconv"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// JobAdKey is the cache key of the current draft for a profile.
func JobAdKey(profileID int64) string {
	return "jobad:profile:" + strconv.FormatInt(profileID, 10)
}
