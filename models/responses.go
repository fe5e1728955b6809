// path: models/responses.go
package models

// SightingItem is one map entry in GET /api/logs responses.
type SightingItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Danger      int     `json:"danger"`
	VisitDate   string  `json:"visit_date"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Fire        bool    `json:"fire"`
	CreatedAt   string  `json:"created_at"`
}

type SightingListResp struct {
	OK         bool           `json:"ok"`
	Items      []SightingItem `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type CreateSightingResp struct {
	OK   bool         `json:"ok"`
	Item SightingItem `json:"item"`
}

// RegistrationResp is returned by both registration endpoints.
type RegistrationResp struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// BroadcastResp reports the fan-out summary for an explicit trigger.
type BroadcastResp struct {
	OK         bool   `json:"ok"`
	RunID      string `json:"run_id"`
	Recipients int    `json:"recipients"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
}

// TextResp mirrors the SMS endpoint's success/message envelope.
type TextResp struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	Carriers []string `json:"carriers,omitempty"`
}
