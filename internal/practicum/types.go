// Package practicum implements the homework-status API client and the
// translation of homework records into chat notifications.
package practicum

import "encoding/json"

// Payload is a decoded API response before shape validation.
// Keys are kept raw so CheckResponse can classify missing keys and
// wrong value types separately from body-level decode failures.
type Payload map[string]json.RawMessage

// Homework is a single homework record as returned by the API.
type Homework struct {
	ID              int64  `json:"id,omitempty"`
	HomeworkName    string `json:"homework_name"`
	Status          string `json:"status"`
	ReviewerComment string `json:"reviewer_comment,omitempty"`
	DateUpdated     string `json:"date_updated,omitempty"`
	LessonName      string `json:"lesson_name,omitempty"`
}

// Statuses is a validated API response.
type Statuses struct {
	Homeworks   []Homework
	CurrentDate int64
}
