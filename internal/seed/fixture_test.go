package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallFixture = `
ratings: [PG]
genres: [Drama]
directors: [Jane Campion]
films:
  - name: The Piano
    release_date: "1993-05-19"
    duration: 121
    rating: PG
    genres: [Drama]
    directors: [Jane Campion]
  - name: Bright Star
    release_date: "2009-05-15"
    duration: 119
users:
  - {login: ada, email: ada@example.com, name: Ada, birthday: "1990-02-03"}
  - {login: bo, email: bo@example.com}
likes:
  - {user: ada, films: [The Piano, Bright Star]}
  - {user: bo, films: [The Piano]}
friends:
  - {user: ada, friends: [bo]}
`

func TestLoadFixture(t *testing.T) {
	fx, err := LoadFixture(strings.NewReader(smallFixture))
	require.NoError(t, err)

	assert.Len(t, fx.Films, 2)
	assert.Equal(t, []string{"Jane Campion"}, fx.Films[0].Directors)
	assert.Equal(t, "1990-02-03", fx.Users[0].Birthday)
	assert.Equal(t, []string{"bo"}, fx.Friends[0].Friends)
}

func TestLoadFixtureRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "movies: []", "field movies not found"},
		{"unknown genre", "films: [{name: X, release_date: \"2000-01-01\", genres: [Noir]}]", `unknown genre "Noir"`},
		{"bad date", "films: [{name: X, release_date: \"01/01/2000\"}]", "invalid date"},
		{"unknown liked film", "users: [{login: a, email: a@x}]\nlikes: [{user: a, films: [Nope]}]", `unknown film "Nope"`},
		{"self friend", "users: [{login: a, email: a@x}]\nfriends: [{user: a, friends: [a]}]", "self reference"},
		{"user without email", "users: [{login: a}]", "login and an email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFixture(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFixtureEmpty(t *testing.T) {
	fx, err := LoadFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Films)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	fx, err := DefaultCatalog()
	require.NoError(t, err)
	require.NoError(t, fx.Validate())
	assert.Equal(t, []string{"G", "PG", "PG-13", "R", "NC-17"}, fx.Ratings)
	assert.NotEmpty(t, fx.Films)
	assert.Empty(t, fx.Users)
}
