package redis

import "fmt"

// Key prefix for all chat-related data
const keyPrefix = "relaychat"

// accountKey returns the Redis key for an Account
func accountKey(username string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, username)
}
