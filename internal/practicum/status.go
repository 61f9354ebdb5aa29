package practicum

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Verdict texts keyed by the fixed status enumeration. Any status outside
// this set is a data error.
var verdicts = map[string]string{
	"approved":  "Работа проверена: ревьюеру всё понравилось. Ура!",
	"reviewing": "Работа взята на проверку ревьюером.",
	"rejected":  "Работа проверена: у ревьюера есть замечания.",
}

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
)

// CheckResponse validates the shape of a decoded API payload and extracts
// the homework list and server timestamp.
//
// Violations are reported as *ShapeError: missing required key, homeworks
// not a list, current_date not an integer. An empty (but well-formed)
// homework list is not an error; callers treat it as a quiet cycle.
func CheckResponse(payload Payload) (*Statuses, error) {
	rawHomeworks, ok := payload[keyHomeworks]
	if !ok {
		return nil, &ShapeError{Key: keyHomeworks, Kind: ShapeMissingKey}
	}
	rawDate, ok := payload[keyCurrentDate]
	if !ok {
		return nil, &ShapeError{Key: keyCurrentDate, Kind: ShapeMissingKey}
	}

	// json.Unmarshal treats null as a no-op, so reject it explicitly.
	var homeworks []Homework
	if isJSONNull(rawHomeworks) {
		return nil, &ShapeError{Key: keyHomeworks, Kind: ShapeWrongType, Want: "list"}
	}
	if err := json.Unmarshal(rawHomeworks, &homeworks); err != nil {
		return nil, &ShapeError{Key: keyHomeworks, Kind: ShapeWrongType, Want: "list"}
	}

	var currentDate int64
	if isJSONNull(rawDate) {
		return nil, &ShapeError{Key: keyCurrentDate, Kind: ShapeWrongType, Want: "integer"}
	}
	if err := json.Unmarshal(rawDate, &currentDate); err != nil {
		return nil, &ShapeError{Key: keyCurrentDate, Kind: ShapeWrongType, Want: "integer"}
	}

	return &Statuses{Homeworks: homeworks, CurrentDate: currentDate}, nil
}

// ParseStatus turns one homework record into notification text.
//
// The record must carry a non-empty name and a status from the fixed
// verdict set; anything else is a *RecordError. An unknown status is never
// silently mapped to a blank verdict.
func ParseStatus(hw Homework) (string, error) {
	if hw == (Homework{}) {
		return "", &RecordError{Reason: "empty record"}
	}
	if hw.HomeworkName == "" {
		return "", &RecordError{Reason: "missing homework_name"}
	}
	verdict, ok := verdicts[hw.Status]
	if !ok {
		return "", &RecordError{Reason: fmt.Sprintf("unknown status %q", hw.Status)}
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", hw.HomeworkName, verdict), nil
}
