package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// LocalDateTimeLayout is the wall-clock layout exchanged with the completion
// service and used for zone-less dates such as a meal's EatOn.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime is a wall-clock date and time with no zone attached.
// The wrapped time is always in UTC and only its fields are meaningful.
type LocalDateTime struct {
	time.Time
}

// NewLocalDateTime builds a wall-clock value from its fields.
func NewLocalDateTime(year int, month time.Month, day, hour, min, sec int) LocalDateTime {
	return LocalDateTime{Time: time.Date(year, month, day, hour, min, sec, 0, time.UTC)}
}

// ParseLocalDateTime parses "yyyy-MM-ddTHH:mm:ss".
func ParseLocalDateTime(s string) (LocalDateTime, error) {
	t, err := time.Parse(LocalDateTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return LocalDateTime{}, fmt.Errorf("invalid local date time %q: %w", s, err)
	}
	return LocalDateTime{Time: t}, nil
}

func (l LocalDateTime) String() string {
	if l.IsZero() {
		return ""
	}
	return l.Format(LocalDateTimeLayout)
}

func (l LocalDateTime) MarshalJSON() ([]byte, error) {
	if l.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(l.String())
}

func (l *LocalDateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*l = LocalDateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*l = LocalDateTime{}
		return nil
	}
	parsed, err := ParseLocalDateTime(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// In resolves the wall-clock value in the IANA zone tzID. Wall times that fall
// into a daylight-saving gap do not exist in the zone and are rejected.
func (l LocalDateTime) In(tzID string) (ZonedTime, error) {
	loc, err := time.LoadLocation(tzID)
	if err != nil || tzID == "" || strings.EqualFold(tzID, "local") {
		return ZonedTime{}, fmt.Errorf("unknown time zone %q", tzID)
	}
	t := time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), 0, loc)
	if t.Hour() != l.Hour() || t.Minute() != l.Minute() || t.Day() != l.Day() {
		return ZonedTime{}, fmt.Errorf("%s does not exist in time zone %s", l, tzID)
	}
	return ZonedTime{Time: t}, nil
}

// ZonedTime is an instant bound to a named IANA zone. It serializes as the
// local wall time followed by the zone id in brackets:
//
//	2025-04-14T15:23:56[Europe/Paris]
type ZonedTime struct {
	time.Time
}

// ZoneID returns the IANA zone id.
func (z ZonedTime) ZoneID() string {
	return z.Location().String()
}

func (z ZonedTime) String() string {
	if z.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s[%s]", z.Format(LocalDateTimeLayout), z.ZoneID())
}

// ParseZonedTime parses the bracketed form produced by String.
func ParseZonedTime(s string) (ZonedTime, error) {
	open := strings.LastIndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return ZonedTime{}, fmt.Errorf("invalid zoned time %q: missing zone", s)
	}
	local, err := ParseLocalDateTime(s[:open])
	if err != nil {
		return ZonedTime{}, err
	}
	return local.In(s[open+1 : len(s)-1])
}

func (z ZonedTime) MarshalJSON() ([]byte, error) {
	if z.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(z.String())
}

func (z *ZonedTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*z = ZonedTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*z = ZonedTime{}
		return nil
	}
	parsed, err := ParseZonedTime(s)
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}
