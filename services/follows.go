package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/avezhov/pulse/models"
)

// FollowService manages follow edges between a reader and an author.
type FollowService struct {
	db *gorm.DB
}

// NewFollowService creates a FollowService on the given database handle.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow subscribes userID to the author named by username. The operation
// is get-or-create: following an author twice succeeds and returns the
// existing edge, so the unique pair constraint never surfaces to callers.
// Following yourself fails with ErrInvalid.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) (models.Follow, error) {
	var author models.User
	if err := s.db.WithContext(ctx).Where("username = ?", authorUsername).First(&author).Error; err != nil {
		return models.Follow{}, translate("author "+authorUsername, err)
	}
	if author.ID == userID {
		return models.Follow{}, translate("follow yourself", ErrInvalid)
	}
	var edge models.Follow
	err := s.db.WithContext(ctx).
		Where(models.Follow{UserID: userID, AuthorID: author.ID}).
		FirstOrCreate(&edge).Error
	if err != nil {
		return models.Follow{}, translate("follow", err)
	}
	return edge, nil
}

// Unfollow removes the edge from userID to the named author. A missing
// author or a missing edge both fail with ErrNotFound.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) error {
	var author models.User
	if err := s.db.WithContext(ctx).Where("username = ?", authorUsername).First(&author).Error; err != nil {
		return translate("author "+authorUsername, err)
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, author.ID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return translate("unfollow", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("follow edge", ErrNotFound)
	}
	return nil
}

// IsFollowing reports whether userID currently follows the author.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, translate("follow lookup", err)
	}
	return count > 0, nil
}
