package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/avezhov/pulse/models"
)

// GroupService manages the administratively curated set of groups.
type GroupService struct {
	db *gorm.DB
}

// NewGroupService creates a GroupService on the given database handle.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// Create inserts a new group. The slug must be unique; a duplicate fails
// with ErrDuplicate. Title length is capped at the column size.
func (s *GroupService) Create(ctx context.Context, title, slug, description string) (models.Group, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, " /?#") {
		return models.Group{}, translate("group slug", ErrInvalid)
	}
	if utf8.RuneCountInString(title) > 200 {
		return models.Group{}, translate("group title", ErrInvalid)
	}
	group := models.Group{Title: title, Slug: slug, Description: description}
	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		return models.Group{}, translate("create group", err)
	}
	return group, nil
}

// GetBySlug finds a group by its slug.
func (s *GroupService) GetBySlug(ctx context.Context, slug string) (models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	return group, translate("group "+slug, err)
}

// List returns all groups ordered by title.
func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.WithContext(ctx).Order("title").Find(&groups).Error
	return groups, translate("list groups", err)
}

// Update edits a group's title and description. The slug stays fixed once a
// group exists so URLs keep working.
func (s *GroupService) Update(ctx context.Context, id uint, title, description string) (models.Group, error) {
	if utf8.RuneCountInString(title) > 200 {
		return models.Group{}, translate("group title", ErrInvalid)
	}
	var group models.Group
	if err := s.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.Group{}, translate("group", err)
	}
	updates := map[string]interface{}{"title": title, "description": description}
	if err := s.db.WithContext(ctx).Model(&group).Updates(updates).Error; err != nil {
		return models.Group{}, translate("update group", err)
	}
	return group, nil
}

// Delete removes a group and detaches its posts. Posts survive with their
// group reference cleared; the detach and the delete commit together.
func (s *GroupService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("delete group", err)
}
