package model

import "time"

// Response is one respondent's answer set for a form. Data maps field ids to
// submitted values; the value shape depends on the field type (string for
// text-like fields, list of strings for checkbox groups, number for range).
// Responses are immutable after creation except for deletion.
type Response struct {
	ID         int            `json:"id,omitempty"`
	FormID     int            `json:"formId"`
	Data       map[string]any `json:"data"`
	IsComplete bool           `json:"isComplete"`
	CreatedAt  time.Time      `json:"createdAt"`
}
