package models

import "time"

// Post is a publication by a user, optionally filed under a group.
// PubDate is set once at creation and never updated; every listing orders
// by it descending.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	AuthorID uint      `gorm:"index;not null" json:"author_id"`
	GroupID  *uint     `gorm:"index" json:"group_id,omitempty"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Image    string    `gorm:"size:512" json:"image,omitempty"` // stored file URL, empty when no attachment
	PubDate  time.Time `gorm:"index;autoCreateTime" json:"pub_date"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Group    *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}
