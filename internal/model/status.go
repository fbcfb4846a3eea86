package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
)

// Statuses lists the variants in ordinal order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

var ErrUnknownStatus = fmt.Errorf("unknown status, expected one of %v", Statuses)

// ParseStatus accepts a variant name (case-insensitive) or its ordinal.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(Statuses) {
			return "", fmt.Errorf("%q: %w", s, ErrUnknownStatus)
		}
		return Statuses[n], nil
	}
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStatus)
}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts the same forms as ParseStatus, either quoted or as a bare number.
// null leaves s unset, like an absent field.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("status must be a string or number: %w", err)
		}
		raw = strconv.Itoa(n)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
