package models

import "time"

// Follow is a directed edge: UserID follows AuthorID. The composite unique
// index keeps the pair from being recorded twice.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_follows_user_author" json:"user_id"`
	AuthorID  uint      `gorm:"not null;index;uniqueIndex:idx_follows_user_author" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}
