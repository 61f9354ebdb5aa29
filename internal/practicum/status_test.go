package practicum

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func payloadFrom(t *testing.T, raw string) Payload {
	t.Helper()
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("test payload: %v", err)
	}
	return p
}

func TestCheckResponseValid(t *testing.T) {
	t.Parallel()
	p := payloadFrom(t, `{
		"homeworks": [{"homework_name": "hw1.zip", "status": "approved"}],
		"current_date": 1700000000
	}`)

	st, err := CheckResponse(p)
	if err != nil {
		t.Fatalf("CheckResponse error: %v", err)
	}
	if len(st.Homeworks) != 1 {
		t.Fatalf("Homeworks len = %d, want 1", len(st.Homeworks))
	}
	if st.Homeworks[0].HomeworkName != "hw1.zip" {
		t.Fatalf("HomeworkName = %q", st.Homeworks[0].HomeworkName)
	}
	if st.CurrentDate != 1700000000 {
		t.Fatalf("CurrentDate = %d", st.CurrentDate)
	}
}

func TestCheckResponseEmptyListIsNotAnError(t *testing.T) {
	t.Parallel()
	p := payloadFrom(t, `{"homeworks": [], "current_date": 10}`)

	st, err := CheckResponse(p)
	if err != nil {
		t.Fatalf("CheckResponse error: %v", err)
	}
	if len(st.Homeworks) != 0 {
		t.Fatalf("Homeworks len = %d, want 0", len(st.Homeworks))
	}
}

func TestCheckResponseShapeViolations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		key  string
		kind string
	}{
		{name: "missing homeworks", raw: `{"current_date": 10}`, key: "homeworks", kind: ShapeMissingKey},
		{name: "missing current_date", raw: `{"homeworks": []}`, key: "current_date", kind: ShapeMissingKey},
		{name: "homeworks is object", raw: `{"homeworks": {"a": 1}, "current_date": 10}`, key: "homeworks", kind: ShapeWrongType},
		{name: "homeworks is string", raw: `{"homeworks": "nope", "current_date": 10}`, key: "homeworks", kind: ShapeWrongType},
		{name: "homeworks is null", raw: `{"homeworks": null, "current_date": 10}`, key: "homeworks", kind: ShapeWrongType},
		{name: "current_date is string", raw: `{"homeworks": [], "current_date": "10"}`, key: "current_date", kind: ShapeWrongType},
		{name: "current_date is null", raw: `{"homeworks": [], "current_date": null}`, key: "current_date", kind: ShapeWrongType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := CheckResponse(payloadFrom(t, tt.raw))
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("err = %v, want *ShapeError", err)
			}
			if shapeErr.Key != tt.key {
				t.Fatalf("Key = %q, want %q", shapeErr.Key, tt.key)
			}
			if shapeErr.Kind != tt.kind {
				t.Fatalf("Kind = %q, want %q", shapeErr.Kind, tt.kind)
			}
		})
	}
}

func TestParseStatusVerdicts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status string
		want   string
	}{
		{status: "approved", want: "ревьюеру всё понравилось"},
		{status: "reviewing", want: "взята на проверку"},
		{status: "rejected", want: "есть замечания"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.status, func(t *testing.T) {
			t.Parallel()
			msg, err := ParseStatus(Homework{HomeworkName: "hw.zip", Status: tt.status})
			if err != nil {
				t.Fatalf("ParseStatus error: %v", err)
			}
			if !strings.Contains(msg, `"hw.zip"`) {
				t.Fatalf("message %q does not name the homework", msg)
			}
			if !strings.Contains(msg, tt.want) {
				t.Fatalf("message %q does not contain %q", msg, tt.want)
			}
		})
	}
}

func TestParseStatusRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		hw   Homework
	}{
		{name: "empty record", hw: Homework{}},
		{name: "missing name", hw: Homework{Status: "approved"}},
		{name: "unknown status", hw: Homework{HomeworkName: "hw.zip", Status: "pending"}},
		{name: "empty status", hw: Homework{HomeworkName: "hw.zip"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg, err := ParseStatus(tt.hw)
			var recErr *RecordError
			if !errors.As(err, &recErr) {
				t.Fatalf("err = %v, want *RecordError", err)
			}
			if msg != "" {
				t.Fatalf("message = %q, want empty", msg)
			}
		})
	}
}
