package model

// Item represents a tracked physical item, identified by its scanned code.
type Item struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name,omitempty"`
	Category     string `json:"category,omitempty"`
	Location     string `json:"location,omitempty"`
	Status       string `json:"status"`
	TakenCount   int    `json:"taken_count"`
	LastActionTS int64  `json:"last_action_ts"`
	Quantity     int    `json:"quantity"`
	ImageMime    string `json:"image_mime,omitempty"`
}

// Item statuses.
const (
	StatusAvailable  = "available"
	StatusCheckedOut = "checked_out"
)
