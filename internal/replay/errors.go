package replay

import "fmt"

// DataError reports a malformed or inconsistent hand record. The field
// names the offending record location.
type DataError struct {
	Field  string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("hand record: %s: %s", e.Field, e.Reason)
}

// StalledError reports a replay that stopped making progress: the
// decision count on one street or across the hand exceeded its guard.
// Dump carries a rendered state snapshot for diagnosis.
type StalledError struct {
	Street    string
	Decisions int
	Limit     int
	Dump      string
}

func (e *StalledError) Error() string {
	return fmt.Sprintf("replay stalled on %s after %d decisions (limit %d)\n%s",
		e.Street, e.Decisions, e.Limit, e.Dump)
}
