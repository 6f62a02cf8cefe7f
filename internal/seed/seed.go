// Package seed populates a database with demo or test data, either from a
// YAML fixture or from generated fake data. It is meant for development and
// tests only.
package seed

import (
	"context"
	"fmt"

	"cinemate/internal/models"
	"cinemate/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result counts the rows a seeding run inserted.
type Result struct {
	Films   int
	Users   int
	Likes   int
	Friends int
}

func (r Result) String() string {
	return fmt.Sprintf("%d films, %d users, %d likes, %d friendships", r.Films, r.Users, r.Likes, r.Friends)
}

// Seeder writes seed data through a Gorm DB.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll deletes every row of every seeded table, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := []string{
		"events", "review_votes", "reviews", "likes", "friendships", "film_genres", "film_directors",
		"films", "users", "directors", "genres", "mpa_ratings",
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// ApplyFixture inserts the fixture in one transaction. Reference rows
// (ratings, genres, directors) that already exist by name are reused.
func (s *Seeder) ApplyFixture(ctx context.Context, fx *Fixture) (Result, error) {
	var res Result
	if err := fx.Validate(); err != nil {
		return res, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ratings := make(map[string]models.MpaRating, len(fx.Ratings))
		for _, name := range fx.Ratings {
			r := models.MpaRating{Name: name}
			if err := tx.Where(models.MpaRating{Name: name}).FirstOrCreate(&r).Error; err != nil {
				return fmt.Errorf("rating %q: %w", name, err)
			}
			ratings[name] = r
		}
		genres := make(map[string]models.Genre, len(fx.Genres))
		for _, name := range fx.Genres {
			g := models.Genre{Name: name}
			if err := tx.Where(models.Genre{Name: name}).FirstOrCreate(&g).Error; err != nil {
				return fmt.Errorf("genre %q: %w", name, err)
			}
			genres[name] = g
		}
		directors := make(map[string]models.Director, len(fx.Directors))
		for _, name := range fx.Directors {
			d := models.Director{Name: name}
			if err := tx.Where(models.Director{Name: name}).FirstOrCreate(&d).Error; err != nil {
				return fmt.Errorf("director %q: %w", name, err)
			}
			directors[name] = d
		}

		films := make(map[string]uint, len(fx.Films))
		for _, f := range fx.Films {
			released, _ := parseDate(f.ReleaseDate)
			film := models.Film{
				Name:        f.Name,
				Description: f.Description,
				ReleaseDate: released,
				Duration:    f.Duration,
			}
			if r, ok := ratings[f.Rating]; ok {
				film.MpaID = &r.ID
			}
			for _, g := range f.Genres {
				film.Genres = append(film.Genres, genres[g])
			}
			for _, d := range f.Directors {
				film.Directors = append(film.Directors, directors[d])
			}
			if err := tx.Create(&film).Error; err != nil {
				return fmt.Errorf("film %q: %w", f.Name, err)
			}
			films[f.Name] = film.ID
			res.Films++
		}

		users := make(map[string]uint, len(fx.Users))
		for _, u := range fx.Users {
			user := models.User{Login: u.Login, Email: u.Email, Name: u.Name}
			if u.Birthday != "" {
				b, _ := parseDate(u.Birthday)
				user.Birthday = &b
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("user %q: %w", u.Login, err)
			}
			users[u.Login] = user.ID
			res.Users++
		}

		for _, l := range fx.Likes {
			for _, name := range l.Films {
				n, err := insertLike(tx, users[l.User], films[name])
				if err != nil {
					return err
				}
				res.Likes += n
			}
		}
		for _, e := range fx.Friends {
			for _, login := range e.Friends {
				n, err := insertFriendship(tx, users[e.User], users[login])
				if err != nil {
					return err
				}
				res.Friends += n
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	observability.Logger.InfoContext(ctx, "fixture applied", "result", res.String())
	return res, nil
}

func insertLike(tx *gorm.DB, userID, filmID uint) (int, error) {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Like{UserID: userID, FilmID: filmID})
	if result.Error != nil {
		return 0, fmt.Errorf("like %d/%d: %w", userID, filmID, result.Error)
	}
	return int(result.RowsAffected), nil
}

func insertFriendship(tx *gorm.DB, userID, friendID uint) (int, error) {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Friendship{UserID: userID, FriendID: friendID})
	if result.Error != nil {
		return 0, fmt.Errorf("friendship %d->%d: %w", userID, friendID, result.Error)
	}
	return int(result.RowsAffected), nil
}
