package badger

import (
	"github.com/poiesic/matchmaker/core"
)

// Key prefixes for different data types
const (
	taskPrefix       = "task:"
	taskActivePrefix = "taskact:"
	communityPrefix  = "comm:"
	locationPrefix   = "commloc:"
	vectorPrefix     = "vec:"
	profilePrefix    = "profile:"
	memberPrefix     = "member:"
	activityPrefix   = "active:"
	messagePrefix    = "msg:"
	cachePrefix      = "cache:"
	checkpointSuffix = ":chkpt"
)

// sep separates the parts of composite keys. Ids never contain NUL.
const sep = "\x00"

func makeTaskKey(id core.TaskID) []byte {
	return []byte(taskPrefix + string(id))
}

// makeActiveTaskKey points at the pending or processing task of a user.
func makeActiveTaskKey(userID string) []byte {
	return []byte(taskActivePrefix + userID)
}

func makeCommunityKey(id string) []byte {
	return []byte(communityPrefix + id)
}

// makeLocationKey generates a composite key for the location index.
// Format: prefix city NUL timezone NUL id
func makeLocationKey(city, timezone, id string) []byte {
	return append(makePartialLocationKey(city, timezone), id...)
}

// makePartialLocationKey generates the prefix for exact city and timezone matches.
func makePartialLocationKey(city, timezone string) []byte {
	return []byte(locationPrefix + city + sep + timezone + sep)
}

func makeVectorKey(id string) []byte {
	return []byte(vectorPrefix + id)
}

func makeProfileKey(userID string) []byte {
	return []byte(profilePrefix + userID)
}

// makeMemberKey generates a composite key for a membership.
// Format: prefix community NUL user
func makeMemberKey(communityID, userID string) []byte {
	return []byte(memberPrefix + communityID + sep + userID)
}

func makePartialMemberKey(communityID string) []byte {
	return []byte(memberPrefix + communityID + sep)
}

// makeActivityKey stores the last activity time of a member.
// Format: prefix community NUL user
func makeActivityKey(communityID, userID string) []byte {
	return []byte(activityPrefix + communityID + sep + userID)
}

func makePartialActivityKey(communityID string) []byte {
	return []byte(activityPrefix + communityID + sep)
}

// makeMessageKey generates a composite key for a community message.
// Format: prefix community NUL messageID
func makeMessageKey(communityID, messageID string) []byte {
	return []byte(messagePrefix + communityID + sep + messageID)
}

func makePartialMessageKey(communityID string) []byte {
	return []byte(messagePrefix + communityID + sep)
}

// makeCacheKey generates a key for a cache entry.
// Format: prefix namespace NUL key
func makeCacheKey(namespace, key string) []byte {
	return []byte(cachePrefix + namespace + sep + key)
}

// makeCheckpointKey generates a key for job checkpoints.
func makeCheckpointKey(name string) []byte {
	return []byte(name + checkpointSuffix)
}
