package chatlog

import "time"

// Record is a single message line from a chat export.
type Record struct {
	Timestamp time.Time // zero when the timestamp could not be parsed
	Author    string
	Message   string
}

// HasTimestamp reports whether the record carries a parsed timestamp.
func (r Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}
