package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/avezhov/pulse/models"
)

// UserService maintains the local mirror of externally managed accounts and
// handles account removal cascades.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService on the given database handle.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Ensure upserts the mirror row for an authenticated identity. The identity
// provider owns the account; we only need a matching row for foreign keys
// and username lookups. A changed username is written through.
func (s *UserService) Ensure(ctx context.Context, id uint, username string) error {
	var user models.User
	err := s.db.WithContext(ctx).
		Where(models.User{ID: id}).
		Attrs(models.User{Username: username}).
		FirstOrCreate(&user).Error
	if err != nil {
		return translate("ensure user", err)
	}
	if user.Username != username {
		if err := s.db.WithContext(ctx).Model(&user).Update("username", username).Error; err != nil {
			return translate("ensure user", err)
		}
	}
	return nil
}

// GetByUsername finds a mirrored account by its unique username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return user, translate("user "+username, err)
}

// Delete removes an account and everything hanging off it: the user's
// posts, comments under those posts, the user's own comments elsewhere, and
// follow edges in both directions. Runs in one transaction so a failed
// removal leaves everything in place.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		postIDs := tx.Table("posts").Select("id").Where("author_id = ?", id)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return nil
	})
	return translate("delete user", err)
}
