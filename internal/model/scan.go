package model

// Scan outcome statuses shown to the operator. Unlike item statuses these also
// cover "nothing scanned yet" and failures.
const (
	ScanUnknown    = "unknown"
	ScanAvailable  = "available"
	ScanCheckedOut = "checked_out"
	ScanError      = "error"
)

// ScanStatus is the snapshot of the last scan-affecting operation.
type ScanStatus struct {
	RawCode    string `json:"raw_code,omitempty"`
	Message    string `json:"message"`
	ItemStatus string `json:"item_status"`
	Processing bool   `json:"processing"`
}

// Event kinds emitted for operator feedback (sound, vibration, UI flash).
const (
	EventTaken         = "taken"
	EventReturnPending = "return_pending"
	EventReturned      = "returned"
)

// Event is a fire-and-forget feedback event tagged by item code.
type Event struct {
	Kind string `json:"kind"`
	Code string `json:"code"`
}

// ListRow is the display projection of an item. Rows are recomputed from the
// store on every change; they carry a preformatted timestamp so consumers never
// format dates themselves.
type ListRow struct {
	Code           string `json:"code"`
	Name           string `json:"name,omitempty"`
	Status         string `json:"status"`
	TakenCount     int    `json:"taken_count"`
	Quantity       int    `json:"quantity"`
	LastActionTS   int64  `json:"last_action_ts,omitempty"`
	LastActionText string `json:"last_action_text"`
}
