// Package roster holds the sample membership data processed by the parallelism
// demonstrations.
package roster

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPerson is returned for roster entries that fail validation.
var ErrInvalidPerson = errors.New("invalid person")

// Gender is one of two fixed member categories.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	switch g {
	case Male:
		return "MALE"
	case Female:
		return "FEMALE"
	default:
		return fmt.Sprintf("Gender(%d)", int(g))
	}
}

// ParseGender accepts the upper- or lower-case category name.
func ParseGender(s string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MALE":
		return Male, nil
	case "FEMALE":
		return Female, nil
	default:
		return 0, fmt.Errorf("%w: unknown gender %q", ErrInvalidPerson, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (g Gender) MarshalText() ([]byte, error) {
	if g != Male && g != Female {
		return nil, fmt.Errorf("%w: unknown gender %d", ErrInvalidPerson, int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Person is a roster member.
type Person struct {
	Name     string
	Gender   Gender
	Birthday time.Time
	Email    string
}

// Age returns the person's age in whole years on the given date.
func (p Person) Age(asOf time.Time) int {
	years := asOf.Year() - p.Birthday.Year()
	// Month and day, not YearDay: leap years shift YearDay.
	if asOf.Month() < p.Birthday.Month() ||
		(asOf.Month() == p.Birthday.Month() && asOf.Day() < p.Birthday.Day()) {
		years--
	}
	return years
}

// Format renders the person as "name, age".
func (p Person) Format(asOf time.Time) string {
	return fmt.Sprintf("%s, %d", p.Name, p.Age(asOf))
}

// Validate reports whether the person can take part in the roster.
func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPerson)
	}
	if p.Gender != Male && p.Gender != Female {
		return fmt.Errorf("%w: %s has unknown gender %d", ErrInvalidPerson, p.Name, int(p.Gender))
	}
	if p.Birthday.IsZero() {
		return fmt.Errorf("%w: %s has no birthday", ErrInvalidPerson, p.Name)
	}
	return nil
}
