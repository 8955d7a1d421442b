package roster

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoster(t *testing.T) {
	people := Default()
	require.Len(t, people, 4)

	asOf := time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)
	var lines []string
	for _, p := range people {
		require.NoError(t, p.Validate())
		lines = append(lines, p.Format(asOf))
	}
	assert.Equal(t, []string{"Fred, 32", "Jane, 22", "George, 21", "Bob, 12"}, lines)
}

func TestAge(t *testing.T) {
	p := Person{Name: "Leap", Gender: Female, Birthday: date(2000, time.March, 1)}

	tests := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"day before birthday", date(2010, time.February, 28), 9},
		{"on birthday", date(2010, time.March, 1), 10},
		{"leap year day before", date(2012, time.February, 29), 11},
		{"later month", date(2010, time.December, 31), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Age(tt.asOf))
		})
	}
}

func TestGender(t *testing.T) {
	g, err := ParseGender("female")
	require.NoError(t, err)
	assert.Equal(t, Female, g)
	assert.Equal(t, "FEMALE", g.String())

	_, err = ParseGender("other")
	assert.ErrorIs(t, err, ErrInvalidPerson)

	text, err := Male.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "MALE", string(text))

	var back Gender
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, Male, back)

	_, err = Gender(7).MarshalText()
	assert.ErrorIs(t, err, ErrInvalidPerson)
}

func TestParse(t *testing.T) {
	doc := []byte(`
members:
  - name: Ada
    gender: FEMALE
    birthday: 1815-12-10
    email: ada@example.com
  - name: Alan
    gender: male
    birthday: 1912-06-23
`)
	people, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, people, 2)

	assert.Equal(t, "Ada", people[0].Name)
	assert.Equal(t, Female, people[0].Gender)
	assert.Equal(t, date(1815, time.December, 10), people[0].Birthday)
	assert.Equal(t, "ada@example.com", people[0].Email)
	assert.Equal(t, Male, people[1].Gender)
	assert.Empty(t, people[1].Email)
}

func TestParseRejectsInvalidMembers(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown gender", "members:\n  - {name: X, gender: robot, birthday: 2000-01-01}\n"},
		{"bad birthday", "members:\n  - {name: X, gender: MALE, birthday: 01/01/2000}\n"},
		{"missing name", "members:\n  - {gender: MALE, birthday: 2000-01-01}\n"},
		{"no members key", "title: staff\n"},
		{"empty members", "members: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidPerson)
		})
	}

	_, err := Parse([]byte("members: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("members:\n  - {name: Eve, gender: FEMALE, birthday: 1999-09-09}\n"), 0o600))

	people, err := Load(path)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Eve", people[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
