package calculator

import "go-chi-calculator/internal/calc"

// CreateSessionRequest is the optional JSON body for POST /calculator/sessions.
type CreateSessionRequest struct {
	Mode      string `json:"mode,omitempty"`       // "basic" or "scientific"
	AngleMode string `json:"angle_mode,omitempty"` // "degrees" or "radians"
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"` // keypad labels, e.g. ["1", "+", "2", "="]
}

// ModeRequest is the JSON body for PUT /calculator/sessions/{id}/mode.
type ModeRequest struct {
	Mode string `json:"mode"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Mode      string   `json:"mode,omitempty"`
	AngleMode string   `json:"angle_mode,omitempty"`
	Keys      []string `json:"keys"`
}

// KeyResult records the display after one key press.
type KeyResult struct {
	Key     string `json:"key"`
	Display string `json:"display"`
	Fault   string `json:"fault,omitempty"`
}

// SessionResponse is the JSON response for session endpoints.
type SessionResponse struct {
	ID string `json:"id"`
	calc.View
}

// KeysResponse is the JSON response for key presses, on a session or
// stateless.
type KeysResponse struct {
	ID string `json:"id,omitempty"`
	calc.View
	Keys []KeyResult `json:"keys"`
}

// LayoutResponse is the JSON response for GET /calculator/layouts/{mode}.
type LayoutResponse struct {
	Mode calc.Mode  `json:"mode"`
	Rows [][]string `json:"rows"`
}
