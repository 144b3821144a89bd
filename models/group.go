package models

// Group is a named community posts can be filed under. Groups are managed
// administratively; deleting one detaches its posts instead of removing them.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Posts       []Post `json:"-"`
}
