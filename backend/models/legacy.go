package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// ParseGrade reads a grade written as a string, a number or null. An absent
// or null grade yields nil.
func ParseGrade(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return nil, nil
	}
	var grade string
	if err := json.Unmarshal(raw, &grade); err == nil {
		return &grade, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("grade must be a string, a number or null, got %s", raw)
	}
	grade = n.String()
	return &grade, nil
}

// parseCount reads an integer written as a number or a numeric string.
// Absent, null and empty values yield 0.
func parseCount(field string, raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return 0, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%s must be a number, got %s", field, raw)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		n = json.Number(s)
	}
	if i, err := strconv.Atoi(n.String()); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %s", field, raw)
	}
	return int(f), nil
}

// UnmarshalJSON accepts numeric grades, which older data files contain.
func (e *Enrollment) UnmarshalJSON(data []byte) error {
	type plain Enrollment
	aux := struct {
		*plain
		Grade json.RawMessage `json:"grade"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	grade, err := ParseGrade(aux.Grade)
	if err != nil {
		return err
	}
	e.Grade = grade
	return nil
}

// UnmarshalJSON accepts credits and seat limits stored as numeric strings.
func (c *Course) UnmarshalJSON(data []byte) error {
	type plain Course
	aux := struct {
		*plain
		Credits     json.RawMessage `json:"credits"`
		MaxStudents json.RawMessage `json:"maxStudents"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if c.Credits, err = parseCount("credits", aux.Credits); err != nil {
		return err
	}
	if c.MaxStudents, err = parseCount("maxStudents", aux.MaxStudents); err != nil {
		return err
	}
	return nil
}
