package conversation

// Pointer helpers for filling optional request parameters.

// String returns a pointer to s.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int64 returns a pointer to i.
func Int64(i int64) *int64 { return &i }
