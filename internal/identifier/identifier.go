package identifier

import "regexp"

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	roomCode    = regexp.MustCompile(`^[0-9]{6}$`)
)

// TablePrefix is prepended to a sanitized room id to name its storage table.
const TablePrefix = "room_"

// Sanitize strips every character outside [A-Za-z0-9_] from raw.
// It never rejects input; callers decide what an empty result means.
func Sanitize(raw string) string {
	return unsafeChars.ReplaceAllString(raw, "")
}

// TableName returns the storage table name for a raw room id.
func TableName(raw string) string {
	return TablePrefix + Sanitize(raw)
}

// IsRoomCode reports whether s is exactly six ASCII digits.
func IsRoomCode(s string) bool {
	return roomCode.MatchString(s)
}
