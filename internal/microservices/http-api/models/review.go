package models

import "time"

// Score bounds, enforced by validation and by the reviews CHECK constraint
const (
	MinScore = 1
	MaxScore = 10
)

type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID  int64     `json:"title_id" gorm:"not null;uniqueIndex:idx_reviews_title_author"`
	AuthorID string    `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author"`
	Text     string    `json:"text" gorm:"not null;type:text"`
	Score    int       `json:"score" gorm:"not null;check:chk_reviews_score,score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// Associations
	Author   User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Comments []Comment `json:"-" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

// OwnerID returns the author used for object-level permission checks
func (r *Review) OwnerID() string {
	return r.AuthorID
}

// ValidScore reports whether score lies within [MinScore, MaxScore]
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
