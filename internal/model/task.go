package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string `json:"title" gorm:"not null;default:''"`
	Description string `json:"description" gorm:"not null;default:''"`
	Date        Date   `json:"date" gorm:"column:date;type:datetime;not null;index"`
	Status      Status `json:"status" gorm:"type:text;not null;index"`
}

func (Task) TableName() string {
	return "tasks"
}

// Date is a task timestamp. The zero value means "not set".
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// NewDate normalises t to UTC.
func NewDate(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{Time: t.UTC()}
}

// ParseDate accepts a calendar date (YYYY-MM-DD, UTC midnight) or an RFC3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("date %q: use YYYY-MM-DD or RFC3339", s)
}

// Empty reports whether the date is the "not set" sentinel.
func (d Date) Empty() bool {
	return d.Time.IsZero()
}

// Day returns the UTC calendar day containing d as a half-open range [start, end).
func (d Date) Day() (time.Time, time.Time) {
	u := d.Time.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

// UnmarshalJSON treats null and "" as the sentinel.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan lets GORM read the column back. mattn/go-sqlite3 returns time.Time for
// datetime columns, but older rows written as text are parsed as well.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	for _, layout := range []string{"2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as Date", s)
}

func (d Date) Value() (driver.Value, error) {
	return d.Time.UTC(), nil
}
