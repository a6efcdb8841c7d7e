package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DateLayout is the wire and storage layout for calendar dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire and storage layout for times of day.
	TimeLayout = "15:04"
)

// Date is a calendar date without a time-of-day component.
type Date struct {
	Date time.Time
}

// ParseDate parses a date in DateLayout.
func ParseDate(s string) (Date, error) {
	parsed, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date: %v", err)
	}
	return Date{Date: parsed}, nil
}

func (d Date) IsZero() bool {
	return d.Date.IsZero()
}

func (d Date) String() string {
	return d.Date.Format(DateLayout)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Value implements driver.Valuer so the date is stored as a DATE column.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. MySQL returns DATE columns as time.Time when
// the DSN carries parseTime=True, and as bytes otherwise.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = Date{Date: v}
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// TimeOfDay is a wall-clock time without a date component.
type TimeOfDay struct {
	Time time.Time
}

// ParseTimeOfDay parses a time of day in TimeLayout, accepting an optional
// seconds component.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		parsed, err = time.Parse("15:04:05", s)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("failed to parse time: %v", err)
		}
	}
	return TimeOfDay{Time: parsed}, nil
}

func (t TimeOfDay) IsZero() bool {
	return t.Time.IsZero()
}

func (t TimeOfDay) String() string {
	return t.Time.Format(TimeLayout)
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Value implements driver.Valuer so the time is stored as a short varchar.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *TimeOfDay) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = TimeOfDay{}
		return nil
	case time.Time:
		*t = TimeOfDay{Time: v}
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", value)
	}
}
