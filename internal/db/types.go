package db

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Timestamp wraps time.Time so the same model scans from postgres, which
// returns time.Time, and sqlite, which may hand back text or unix seconds.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to microseconds, the precision
// postgres keeps for TIMESTAMP columns.
func Now() Timestamp {
	return Timestamp{Time: time.Now().UTC().Truncate(time.Microsecond)}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Scan implements sql.Scanner
func (t *Timestamp) Scan(src interface{}) error {
	if t == nil {
		return fmt.Errorf("dbtypes: Scan on nil *Timestamp")
	}

	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case int64:
		t.Time = time.Unix(v, 0).UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("dbtypes: cannot scan type %T into Timestamp", src)
	}
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("dbtypes: unrecognised timestamp %q", s)
}

// Value implements driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	return t.Time.UTC(), nil
}
