package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const rentMonthLayout = "2006-01"

// RentMonth is a calendar year-month key. The zero value is invalid.
type RentMonth struct {
	Year  int
	Month time.Month
}

func NewRentMonth(year int, month time.Month) RentMonth {
	return MonthOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the rent month containing t.
func MonthOf(t time.Time) RentMonth {
	return RentMonth{Year: t.Year(), Month: t.Month()}
}

// ParseRentMonth accepts "YYYY-MM" or a full "YYYY-MM-DD" date.
func ParseRentMonth(s string) (RentMonth, error) {
	if t, err := time.Parse(rentMonthLayout, s); err == nil {
		return MonthOf(t), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return RentMonth{}, fmt.Errorf("invalid rent month %q: expected YYYY-MM", s)
	}
	return MonthOf(t), nil
}

func (m RentMonth) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// Start returns midnight UTC of the first day of the month.
func (m RentMonth) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC of the last day of the month.
func (m RentMonth) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

func (m RentMonth) AddMonths(n int) RentMonth { return MonthOf(m.Start().AddDate(0, n, 0)) }
func (m RentMonth) Next() RentMonth           { return m.AddMonths(1) }
func (m RentMonth) Prev() RentMonth           { return m.AddMonths(-1) }

func (m RentMonth) Before(other RentMonth) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m RentMonth) After(other RentMonth) bool { return other.Before(m) }

// MonthsUntil returns the number of months from m to other; negative when other is earlier.
func (m RentMonth) MonthsUntil(other RentMonth) int {
	return (other.Year-m.Year)*12 + int(other.Month) - int(m.Month)
}

func (m RentMonth) String() string {
	if m.IsZero() {
		return ""
	}
	return m.Start().Format(rentMonthLayout)
}

func (m RentMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *RentMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*m = RentMonth{}
		return nil
	}
	parsed, err := ParseRentMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the month as the first day of the month.
func (m RentMonth) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, nil
	}
	return m.Start(), nil
}

func (m *RentMonth) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = RentMonth{}
	case time.Time:
		*m = MonthOf(v)
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into RentMonth", src)
	}
	return nil
}

func (m *RentMonth) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseRentMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date truncates t to midnight UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
