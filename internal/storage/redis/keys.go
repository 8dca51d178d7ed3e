package redis

import "fmt"

// Key prefix for all cached data
const keyPrefix = "hoyorecord"

// accountRecordKey returns the Redis key for an AccountRecord
func accountRecordKey(accountID int64) string {
	return fmt.Sprintf("%s:account:%d", keyPrefix, accountID)
}
