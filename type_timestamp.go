package ledger

import "time"

// Timestamp is a wall-clock instant in milliseconds since the Unix epoch.
// It is persisted as a JSON integer.
type Timestamp int64

// At returns the Timestamp of t.
func At(t time.Time) Timestamp { return Timestamp(t.UnixMilli()) }

// Time returns the timestamp as a UTC time.
func (ts Timestamp) Time() time.Time { return time.UnixMilli(int64(ts)).UTC() }

// String formats the timestamp in RFC 3339.
func (ts Timestamp) String() string { return ts.Time().Format(time.RFC3339) }
