package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avezhov/pulse/models"
)

func TestFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	reader := seedUser(t, db, "reader")
	seedUser(t, db, "author")

	first, err := follows.Follow(context.Background(), reader.ID, "author")
	require.NoError(t, err)

	second, err := follows.Follow(context.Background(), reader.ID, "author")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDuplicateFollowRejectedByConstraint(t *testing.T) {
	db := newTestDB(t)
	reader := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")

	require.NoError(t, db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error)
	err := db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	reader := seedUser(t, db, "reader")

	_, err := follows.Follow(context.Background(), reader.ID, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollowSelfRejected(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	reader := seedUser(t, db, "narcissus")

	_, err := follows.Follow(context.Background(), reader.ID, "narcissus")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUnfollow(t *testing.T) {
	db := newTestDB(t)
	follows := NewFollowService(db)
	reader := seedUser(t, db, "reader")
	author := seedUser(t, db, "author")

	_, err := follows.Follow(context.Background(), reader.ID, "author")
	require.NoError(t, err)

	require.NoError(t, follows.Unfollow(context.Background(), reader.ID, "author"))

	ok, err := follows.IsFollowing(context.Background(), reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Edge already gone
	assert.ErrorIs(t, follows.Unfollow(context.Background(), reader.ID, "author"), ErrNotFound)
	// Unknown author
	assert.ErrorIs(t, follows.Unfollow(context.Background(), reader.ID, "ghost"), ErrNotFound)
}
