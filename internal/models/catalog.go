package models

// Genre is a film genre such as "Comedy".
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// MpaRating is a Motion Picture Association classification (G, PG, PG-13, R, NC-17).
type MpaRating struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for GORM
func (MpaRating) TableName() string {
	return "mpa_ratings"
}

// Director is a person credited with directing films.
type Director struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;index" json:"name"`
}
