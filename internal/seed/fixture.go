package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yml
var defaultCatalog []byte

// dateLayout is the release date and birthday format used in fixture files.
const dateLayout = "2006-01-02"

// Fixture is a hand-written dataset. Entities reference each other by name
// (films by title, users by login) so files stay readable.
type Fixture struct {
	Ratings   []string      `yaml:"ratings"`
	Genres    []string      `yaml:"genres"`
	Directors []string      `yaml:"directors"`
	Films     []FilmFixture `yaml:"films"`
	Users     []UserFixture `yaml:"users"`
	Likes     []LikeFixture `yaml:"likes"`
	Friends   []EdgeFixture `yaml:"friends"`
}

// FilmFixture describes one film.
type FilmFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	ReleaseDate string   `yaml:"release_date"`
	Duration    int      `yaml:"duration"`
	Rating      string   `yaml:"rating"`
	Genres      []string `yaml:"genres"`
	Directors   []string `yaml:"directors"`
}

// UserFixture describes one user.
type UserFixture struct {
	Login    string `yaml:"login"`
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Birthday string `yaml:"birthday"`
}

// LikeFixture lists the films a user likes.
type LikeFixture struct {
	User  string   `yaml:"user"`
	Films []string `yaml:"films"`
}

// EdgeFixture lists the users a user has added as friends.
type EdgeFixture struct {
	User    string   `yaml:"user"`
	Friends []string `yaml:"friends"`
}

// LoadFixture decodes and validates a fixture. Unknown keys are rejected.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// LoadFixtureFile reads a fixture from disk.
func LoadFixtureFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFixture(f)
}

// DefaultCatalog returns the built-in reference catalog: MPA ratings, genres
// and a handful of films, with no users.
func DefaultCatalog() (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(defaultCatalog, &fx); err != nil {
		return nil, fmt.Errorf("decode default catalog: %w", err)
	}
	return &fx, nil
}

// Validate checks that every cross reference in the fixture resolves.
func (fx *Fixture) Validate() error {
	ratings := toSet(fx.Ratings)
	genres := toSet(fx.Genres)
	directors := toSet(fx.Directors)

	films := make(map[string]struct{}, len(fx.Films))
	for _, f := range fx.Films {
		if f.Name == "" {
			return fmt.Errorf("film without a name")
		}
		if _, err := parseDate(f.ReleaseDate); err != nil {
			return fmt.Errorf("film %q: %w", f.Name, err)
		}
		if f.Rating != "" {
			if _, ok := ratings[f.Rating]; !ok {
				return fmt.Errorf("film %q: unknown rating %q", f.Name, f.Rating)
			}
		}
		for _, g := range f.Genres {
			if _, ok := genres[g]; !ok {
				return fmt.Errorf("film %q: unknown genre %q", f.Name, g)
			}
		}
		for _, d := range f.Directors {
			if _, ok := directors[d]; !ok {
				return fmt.Errorf("film %q: unknown director %q", f.Name, d)
			}
		}
		films[f.Name] = struct{}{}
	}

	users := make(map[string]struct{}, len(fx.Users))
	for _, u := range fx.Users {
		if u.Login == "" || u.Email == "" {
			return fmt.Errorf("user needs a login and an email")
		}
		if u.Birthday != "" {
			if _, err := parseDate(u.Birthday); err != nil {
				return fmt.Errorf("user %q: %w", u.Login, err)
			}
		}
		users[u.Login] = struct{}{}
	}

	for _, l := range fx.Likes {
		if _, ok := users[l.User]; !ok {
			return fmt.Errorf("likes: unknown user %q", l.User)
		}
		for _, name := range l.Films {
			if _, ok := films[name]; !ok {
				return fmt.Errorf("likes of %q: unknown film %q", l.User, name)
			}
		}
	}
	for _, e := range fx.Friends {
		if _, ok := users[e.User]; !ok {
			return fmt.Errorf("friends: unknown user %q", e.User)
		}
		for _, login := range e.Friends {
			if _, ok := users[login]; !ok {
				return fmt.Errorf("friends of %q: unknown user %q", e.User, login)
			}
			if login == e.User {
				return fmt.Errorf("friends of %q: self reference", e.User)
			}
		}
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return t, nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
