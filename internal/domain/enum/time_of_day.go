package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// TimeOfDay represents the delivery slot of a record
type TimeOfDay int

const (
	TimeOfDayMorning TimeOfDay = 0
	TimeOfDayEvening TimeOfDay = 1
)

// Valid checks if the time of day is a known slot
func (t TimeOfDay) Valid() bool {
	switch t {
	case TimeOfDayMorning, TimeOfDayEvening:
		return true
	}
	return false
}

func (t TimeOfDay) String() string {
	if t == TimeOfDayEvening {
		return "Evening"
	}
	return "Morning"
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TimeOfDay(i)
		return nil
	}
	switch strings.ToLower(str) {
	case "morning":
		*t = TimeOfDayMorning
	case "evening":
		*t = TimeOfDayEvening
	}
	return nil
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TimeOfDay) Scan(value interface{}) error {
	if value == nil {
		*t = TimeOfDayMorning
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = TimeOfDay(v)
	case int:
		*t = TimeOfDay(v)
	}
	return nil
}

// TimeOfDayFromNotes derives a slot from a free-text notes field.
// Legacy records encoded the slot as a substring of the notes column;
// anything without "evening" counts as morning. Kept only as a
// compatibility shim for rows created before the structured column.
func TimeOfDayFromNotes(notes string) TimeOfDay {
	if strings.Contains(strings.ToLower(notes), "evening") {
		return TimeOfDayEvening
	}
	return TimeOfDayMorning
}
