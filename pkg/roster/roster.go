package roster

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of birthdays in roster files.
const DateLayout = "2006-01-02"

// Default returns the built-in sample roster.
func Default() []Person {
	return []Person{
		{Name: "Fred", Gender: Male, Birthday: date(1980, time.June, 20), Email: "fred@example.com"},
		{Name: "Jane", Gender: Female, Birthday: date(1990, time.July, 15), Email: "jane@example.com"},
		{Name: "George", Gender: Male, Birthday: date(1991, time.August, 13), Email: "george@example.com"},
		{Name: "Bob", Gender: Male, Birthday: date(2000, time.September, 12), Email: "bob@example.com"},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// file is the on-disk roster layout:
//
//	members:
//	  - name: Fred
//	    gender: MALE
//	    birthday: 1980-06-20
//	    email: fred@example.com
type file struct {
	Members []record `yaml:"members"`
}

type record struct {
	Name     string `yaml:"name"`
	Gender   string `yaml:"gender"`
	Birthday string `yaml:"birthday"`
	Email    string `yaml:"email"`
}

// Load reads a roster from a YAML file.
func Load(path string) ([]Person, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	people, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return people, nil
}

// Parse decodes and validates a YAML roster document.
func Parse(data []byte) ([]Person, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	people := make([]Person, 0, len(f.Members))
	for i, r := range f.Members {
		p, err := r.person()
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		people = append(people, p)
	}
	if len(people) == 0 {
		return nil, fmt.Errorf("%w: roster has no members", ErrInvalidPerson)
	}
	return people, nil
}

func (r record) person() (Person, error) {
	gender, err := ParseGender(r.Gender)
	if err != nil {
		return Person{}, err
	}
	birthday, err := time.Parse(DateLayout, r.Birthday)
	if err != nil {
		return Person{}, fmt.Errorf("%w: %s has birthday %q, want %s", ErrInvalidPerson, r.Name, r.Birthday, DateLayout)
	}
	return Person{
		Name:     r.Name,
		Gender:   gender,
		Birthday: birthday,
		Email:    r.Email,
	}, nil
}
