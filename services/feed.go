package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/avezhov/pulse/models"
)

// ViewKind selects which posts a feed listing covers.
type ViewKind string

const (
	ViewAll       ViewKind = "all"       // every post
	ViewGroup     ViewKind = "group"     // posts filed under a group slug
	ViewAuthor    ViewKind = "author"    // posts by one username
	ViewFollowing ViewKind = "following" // posts by authors the viewer follows
)

// FeedService composes post listings. It is a pure read path: every view
// kind produces posts in descending pub_date order, sliced by Paginate.
type FeedService struct {
	db       *gorm.DB
	pageSize int
}

// NewFeedService creates a FeedService with the configured page size.
func NewFeedService(db *gorm.DB, pageSize int) *FeedService {
	return &FeedService{db: db, pageSize: pageSize}
}

// List produces one page of the requested view. param carries the group
// slug or author username where the kind needs one; viewerID identifies the
// reader for ViewFollowing and is ignored otherwise. Unknown slugs and
// usernames fail with ErrNotFound; an unauthenticated following view (zero
// viewerID) or a viewer who follows nobody gets an empty page.
func (s *FeedService) List(ctx context.Context, kind ViewKind, param string, viewerID uint, page int) ([]models.Post, PageMeta, error) {
	q := s.db.WithContext(ctx)

	switch kind {
	case ViewAll:
		// no filter
	case ViewGroup:
		var group models.Group
		if err := s.db.WithContext(ctx).Where("slug = ?", param).First(&group).Error; err != nil {
			return nil, PageMeta{}, translate("group "+param, err)
		}
		q = q.Where("group_id = ?", group.ID)
	case ViewAuthor:
		var author models.User
		if err := s.db.WithContext(ctx).Where("username = ?", param).First(&author).Error; err != nil {
			return nil, PageMeta{}, translate("author "+param, err)
		}
		q = q.Where("author_id = ?", author.ID)
	case ViewFollowing:
		if viewerID == 0 {
			meta, _ := Paginate(0, page, s.pageSize)
			return []models.Post{}, meta, nil
		}
		followed := s.db.Table("follows").Select("author_id").Where("user_id = ?", viewerID)
		q = q.Where("author_id IN (?)", followed)
	default:
		return nil, PageMeta{}, translate("view "+string(kind), ErrInvalid)
	}

	var total int64
	if err := q.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, PageMeta{}, translate("count posts", err)
	}

	meta, offset := Paginate(total, page, s.pageSize)

	// Non-nil so an empty page serializes as [] rather than null.
	posts := []models.Post{}
	err := q.Model(&models.Post{}).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC, id DESC").
		Offset(offset).
		Limit(s.pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, PageMeta{}, translate("list posts", err)
	}
	return posts, meta, nil
}
