package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/avezhov/pulse/models"
)

// PostService implements post and comment lifecycle. Ownership of a post is
// checked here, not in the HTTP layer, so a non-author edit can never slip
// through a new route.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService on the given database handle.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// Get loads a single post with its author, group and comments.
func (s *PostService) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created") }).
		Preload("Comments.Author").
		First(&post, id).Error
	return post, translate("post", err)
}

// Create publishes a post for authorID. groupSlug and image are optional;
// an unknown slug fails with ErrNotFound. PubDate is assigned by the
// datastore at insert and never changes afterwards.
func (s *PostService) Create(ctx context.Context, authorID uint, text, groupSlug, image string) (models.Post, error) {
	post := models.Post{AuthorID: authorID, Text: text, Image: image}
	if groupSlug != "" {
		var group models.Group
		if err := s.db.WithContext(ctx).Where("slug = ?", groupSlug).First(&group).Error; err != nil {
			return models.Post{}, translate("group "+groupSlug, err)
		}
		post.GroupID = &group.ID
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return models.Post{}, translate("create post", err)
	}
	return s.Get(ctx, post.ID)
}

// Update lets the author change a post's text and group. A nil groupSlug
// leaves the group as is, an empty one detaches the post. Editors other
// than the author get ErrForbidden.
func (s *PostService) Update(ctx context.Context, postID, editorID uint, text string, groupSlug *string) (models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return models.Post{}, translate("post", err)
	}
	if post.AuthorID != editorID {
		return models.Post{}, translate("edit post", ErrForbidden)
	}

	updates := map[string]interface{}{"text": text}
	if groupSlug != nil {
		if *groupSlug == "" {
			updates["group_id"] = nil
		} else {
			var group models.Group
			if err := s.db.WithContext(ctx).Where("slug = ?", *groupSlug).First(&group).Error; err != nil {
				return models.Post{}, translate("group "+*groupSlug, err)
			}
			updates["group_id"] = group.ID
		}
	}
	if err := s.db.WithContext(ctx).Model(&post).Updates(updates).Error; err != nil {
		return models.Post{}, translate("update post", err)
	}
	return s.Get(ctx, postID)
}

// Delete removes a post and its comments. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, postID, editorID uint) error {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return translate("post", err)
	}
	if post.AuthorID != editorID {
		return translate("delete post", ErrForbidden)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	return translate("delete post", err)
}

// AddComment attaches a comment to an existing post.
func (s *PostService) AddComment(ctx context.Context, postID, authorID uint, text string) (models.Comment, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return models.Comment{}, translate("post", err)
	}
	comment := models.Comment{PostID: post.ID, AuthorID: authorID, Text: text}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return models.Comment{}, translate("create comment", err)
	}
	if err := s.db.WithContext(ctx).Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return models.Comment{}, translate("load comment", err)
	}
	return comment, nil
}
