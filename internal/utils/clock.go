package utils

import "time"

// Now is UTC truncated to whole seconds, so stored timestamps share one
// RFC 3339 layout and sort lexically in every document backend.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
