package repository

import (
	"strings"
	"time"

	"cinemate/internal/models"

	"gorm.io/gorm"
)

// FilterKind discriminates FilmFilter values.
type FilterKind int

const (
	FilterGenre FilterKind = iota + 1
	FilterYear
	FilterDirector
	FilterText
)

// FilmFilter is one predicate of a FilmQuery. Only the fields used by Kind are read.
type FilmFilter struct {
	Kind   FilterKind
	ID     uint
	Year   int
	Text   string
	Fields []models.SearchField
}

// GenreFilter keeps films tagged with the genre.
func GenreFilter(genreID uint) FilmFilter {
	return FilmFilter{Kind: FilterGenre, ID: genreID}
}

// YearFilter keeps films released within the calendar year (UTC).
func YearFilter(year int) FilmFilter {
	return FilmFilter{Kind: FilterYear, Year: year}
}

// DirectorFilter keeps films credited to the director.
func DirectorFilter(directorID uint) FilmFilter {
	return FilmFilter{Kind: FilterDirector, ID: directorID}
}

// TextFilter keeps films where any of the fields contains text, ignoring case.
func TextFilter(text string, fields ...models.SearchField) FilmFilter {
	return FilmFilter{Kind: FilterText, Text: text, Fields: fields}
}

// FilmQuery describes a ranked film read: filters are AND-ed, then the result
// is ordered by Sort and cut to Limit. A Limit of zero or less means no limit.
type FilmQuery struct {
	Filters []FilmFilter
	Sort    models.FilmSort
	Limit   int
}

// NewFilmQuery starts a query with the given ordering.
func NewFilmQuery(sort models.FilmSort) FilmQuery {
	return FilmQuery{Sort: sort}
}

// Where returns a copy of q with f added.
func (q FilmQuery) Where(f FilmFilter) FilmQuery {
	filters := make([]FilmFilter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, f)
	return q
}

// WithLimit returns a copy of q cut to n rows.
func (q FilmQuery) WithLimit(n int) FilmQuery {
	q.Limit = n
	return q
}

// Apply adds the query's WHERE, ORDER BY and LIMIT clauses to db. db must
// select from films and expose likes_count.
func (q FilmQuery) Apply(db *gorm.DB) *gorm.DB {
	for _, f := range q.Filters {
		db = f.apply(db)
	}

	switch q.Sort {
	case models.SortByYear:
		db = db.Order("films.release_date ASC, films.id ASC")
	default:
		db = db.Order("likes_count DESC, films.id ASC")
	}

	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db
}

const (
	genrePredicate    = "EXISTS (SELECT 1 FROM film_genres fg WHERE fg.film_id = films.id AND fg.genre_id = ?)"
	directorPredicate = "EXISTS (SELECT 1 FROM film_directors fd WHERE fd.film_id = films.id AND fd.director_id = ?)"
	titleMatch        = `LOWER(films.name) LIKE ? ESCAPE '\'`
	directorMatch     = `EXISTS (SELECT 1 FROM film_directors fd JOIN directors d ON d.id = fd.director_id WHERE fd.film_id = films.id AND LOWER(d.name) LIKE ? ESCAPE '\')`
)

func (f FilmFilter) apply(db *gorm.DB) *gorm.DB {
	switch f.Kind {
	case FilterGenre:
		return db.Where(genrePredicate, f.ID)
	case FilterYear:
		start := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return db.Where("films.release_date >= ? AND films.release_date < ?", start, start.AddDate(1, 0, 0))
	case FilterDirector:
		return db.Where(directorPredicate, f.ID)
	case FilterText:
		pattern := "%" + escapeLike(strings.ToLower(f.Text)) + "%"
		conds := make([]string, 0, len(f.Fields))
		args := make([]interface{}, 0, len(f.Fields))
		for _, field := range f.Fields {
			switch field {
			case models.SearchByTitle:
				conds = append(conds, titleMatch)
			case models.SearchByDirector:
				conds = append(conds, directorMatch)
			default:
				continue
			}
			args = append(args, pattern)
		}
		// a match over no fields is an empty disjunction
		if len(conds) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	default:
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user text match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
