package models

import "time"

// Review is a user's written opinion of a film. Useful is the sum of all
// votes on it and is computed on read.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"review_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsPositive bool      `gorm:"not null" json:"is_positive"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	FilmID     uint      `gorm:"not null;index" json:"film_id"`
	Useful     int       `gorm:"->;-:migration" json:"useful"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Vote values. A user holds at most one vote per review.
const (
	VoteUseful  = 1
	VoteUseless = -1
)

// ReviewVote is one user's like (+1) or dislike (-1) of a review.
type ReviewVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_review_vote_user" json:"review_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_vote_user" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
