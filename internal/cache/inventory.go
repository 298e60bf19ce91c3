package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	TopAskersKeyPrefix = "top_askers:%s"
	BlacklistPrefix    = "blacklist:%s"
)

const (
	UserTTL      = 5 * time.Minute
	TopAskersTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// TopAskersKey is keyed by calendar month, e.g. "top_askers:2026-10".
func TopAskersKey(now time.Time) string {
	return fmt.Sprintf(TopAskersKeyPrefix, now.UTC().Format("2006-01"))
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateTopAskers(ctx context.Context, now time.Time) {
	Invalidate(ctx, TopAskersKey(now))
}
