package utils

import (
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/avezhov/pulse/config"
	"github.com/avezhov/pulse/models"
)

// StartImageCleaner launches a background goroutine that periodically
// removes uploaded images that were never attached to a post. Best-effort;
// failures are logged and retried on the next tick.
func StartImageCleaner(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			if !config.Get().UploadCleanupEnabled {
				continue
			}
			SweepExpiredImages(db, time.Now())
		}
	}()
}

// SweepExpiredImages removes upload records past their expiry, and their
// files, skipping any image a post references.
func SweepExpiredImages(db *gorm.DB, now time.Time) {
	attached := db.Table("posts").Select("image").Where("image <> ''")
	var items []models.UploadedImage
	if err := db.Where("expire_at <= ?", now).Where("url NOT IN (?)", attached).Limit(100).Find(&items).Error; err != nil {
		if Sugar != nil {
			Sugar.Warnf("image cleaner query failed: %v", err)
		}
		return
	}
	for _, it := range items {
		if it.FilePath != "" {
			_ = os.Remove(it.FilePath)
		}
		if err := db.Delete(&models.UploadedImage{}, it.ID).Error; err != nil {
			if Sugar != nil {
				Sugar.Warnf("image cleaner delete row failed: %v", err)
			}
		}
	}
}
