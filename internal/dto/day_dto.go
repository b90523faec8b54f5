package dto

import "encoding/json"

type DayResponse struct {
	ID       string  `json:"id"`
	DayDate  string  `json:"day_date"`
	IsOpen   bool    `json:"is_open"`
	OpenedAt string  `json:"opened_at"`
	ClosedAt *string `json:"closed_at,omitempty"`
	OpenedBy string  `json:"opened_by"`
	ClosedBy *string `json:"closed_by,omitempty"`
}

// DayStatusResponse is the public day gate: can_operate mirrors is_open.
type DayStatusResponse struct {
	IsOpen      bool    `json:"is_open"`
	CurrentDate string  `json:"current_date"`
	OpenedAt    *string `json:"opened_at,omitempty"`
	CanOperate  bool    `json:"can_operate"`
	Message     string  `json:"message"`
}

type DaySnapshotResponse struct {
	ID           string          `json:"id"`
	DayID        string          `json:"day_id"`
	SnapshotType string          `json:"snapshot_type"` // OPENING | CLOSING
	TakenAt      string          `json:"taken_at"`
	Data         json.RawMessage `json:"data"`
}
