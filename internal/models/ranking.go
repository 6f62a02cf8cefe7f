package models

import "strings"

// FilmSort selects the ordering of a ranked film list.
type FilmSort int

const (
	// SortByLikes orders by like count descending, then film id ascending.
	SortByLikes FilmSort = iota
	// SortByYear orders by release date ascending, then film id ascending.
	SortByYear
)

func (s FilmSort) String() string {
	switch s {
	case SortByYear:
		return "year"
	default:
		return "likes"
	}
}

// ParseFilmSort accepts "year" or "likes" in any case.
func ParseFilmSort(raw string) (FilmSort, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "year":
		return SortByYear, nil
	case "likes":
		return SortByLikes, nil
	default:
		return 0, NewValidationError("sortBy must be one of: year, likes")
	}
}

// SearchField is a film attribute that free-text search can match against.
type SearchField string

const (
	SearchByTitle    SearchField = "title"
	SearchByDirector SearchField = "director"
)

// ParseSearchFields normalizes the requested fields, skipping blanks and
// repeats. Unknown names and more than two requested fields are rejected.
func ParseSearchFields(raw []string) ([]SearchField, error) {
	requested := 0
	seen := make(map[SearchField]struct{}, 2)
	fields := make([]SearchField, 0, 2)
	for _, r := range raw {
		name := strings.ToLower(strings.TrimSpace(r))
		if name == "" {
			continue
		}
		requested++
		if requested > 2 {
			return nil, NewValidationError("at most two search fields may be given")
		}
		f := SearchField(name)
		if f != SearchByTitle && f != SearchByDirector {
			return nil, NewValidationError("unknown search field: " + r)
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		fields = append(fields, f)
	}
	return fields, nil
}
