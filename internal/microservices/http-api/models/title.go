package models

import "time"

type Title struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string     `json:"name" gorm:"size:200;not null;index"`
	Year        *int       `json:"year,omitempty" gorm:"index"`
	Description string     `json:"description" gorm:"size:400"`
	CategoryID  *int64     `json:"category_id,omitempty" gorm:"index"`
	CreatedAt   *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// Rating is the mean review score, filled by the repository's rating
	// subquery. Never a column; NULL when the title has no reviews.
	Rating *float64 `json:"rating" gorm:"->;-:migration"`

	// associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genre,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
	Reviews  []Review  `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
