package redis

import "fmt"

// Key prefix for all dice history data
const keyPrefix = "dicesack"

// groupKey returns the Redis key for a group's header (id and timestamp)
func groupKey(id string) string {
	return fmt.Sprintf("%s:group:%s", keyPrefix, id)
}

// diceKey returns the Redis key for the ordered LIST of a group's dice
func diceKey(groupID string) string {
	return fmt.Sprintf("%s:dice:%s", keyPrefix, groupID)
}

// groupsIndexKey returns the Redis key for the LIST of group ids in insertion order
func groupsIndexKey() string {
	return fmt.Sprintf("%s:idx:groups", keyPrefix)
}
