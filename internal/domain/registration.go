package domain

import (
	"fmt"
	"time"
)

// Confirmation is returned by a successful registration.
type Confirmation struct {
	ClientID     int64
	TripID       int64
	RegisteredAt DateStamp
}

// DateStamp is a calendar date encoded as the integer YYYYMMDD.
// client_trip stores registered_at and payment_date in this form, and the
// API exposes them unchanged.
type DateStamp int

// NewDateStamp encodes the calendar date of t as seen in loc.
// A nil loc means UTC.
func NewDateStamp(t time.Time, loc *time.Location) DateStamp {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return DateStamp(y*10000 + int(m)*100 + d)
}

func (d DateStamp) parts() (year int, month time.Month, day int) {
	n := int(d)
	return n / 10000, time.Month(n / 100 % 100), n % 100
}

// Valid reports whether the stamp names a real calendar date.
func (d DateStamp) Valid() bool {
	if d <= 0 {
		return false
	}
	y, m, day := d.parts()
	if y < 1 || y > 9999 || m < time.January || m > time.December || day < 1 {
		return false
	}
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && t.Month() == m && t.Day() == day
}

// Validate returns an ErrValidation-wrapped error when the stamp is not a
// real calendar date.
func (d DateStamp) Validate() error {
	if !d.Valid() {
		return fmt.Errorf("%w: invalid date stamp %d", ErrValidation, int(d))
	}
	return nil
}

// String formats the stamp the way it is stored, e.g. "20250601".
func (d DateStamp) String() string {
	return fmt.Sprintf("%08d", int(d))
}
