package models

import "time"

// UploadedImage records a stored post image. The background cleaner removes
// records past ExpireAt together with their files, skipping any whose URL a
// post references.
type UploadedImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	FilePath  string    `gorm:"size:1024;not null" json:"file_path"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	ExpireAt  time.Time `gorm:"index" json:"expire_at"`
	CreatedAt time.Time `json:"created_at"`
}
