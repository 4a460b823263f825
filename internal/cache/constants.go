package cache

import "time"

// Key prefixes namespace the cache's redis keys.
const (
	KeyPrefixActiveUsers = "questline:active_users:"
)

// DefaultActiveUserTTL bounds how stale a cached active-user count may be.
// Tier recalculation tolerates counts a few minutes old; the window itself
// spans weeks.
const DefaultActiveUserTTL = 5 * time.Minute

// Log messages
const (
	LogMsgCacheReadFailed  = "Cache read failed, falling through"
	LogMsgCacheWriteFailed = "Cache write failed"
)
