package model

// LogEntry records a single item-affecting operation. Entries are append-only
// and are only ever removed when their item is deleted with cascade.
type LogEntry struct {
	ID     int64  `json:"id"`
	Code   string `json:"code"`
	Action string `json:"action"`
	TS     int64  `json:"ts"`
}

// Log actions.
const (
	ActionCreate     = "create"
	ActionTake       = "take"
	ActionReturn     = "return"
	ActionAutoReturn = "auto_return"
)
