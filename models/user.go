package models

import "time"

// User mirrors an account owned by the external identity service. Only the
// stable id and username are kept here; credentials and profile data never
// enter this database.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments  []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}
