package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedListAllOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)
	author := seedUser(t, db, "leo")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := seedPost(t, db, author, "older", base)
	newer := seedPost(t, db, author, "newer", base.Add(time.Hour))

	posts, meta, err := feed.List(context.Background(), ViewAll, "", 0, 1)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
	assert.Equal(t, int64(2), meta.TotalItems)
	assert.Equal(t, "leo", posts[0].Author.Username)
}

func TestFeedListPagination(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)
	author := seedUser(t, db, "prolific")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		seedPost(t, db, author, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page1, meta1, err := feed.List(context.Background(), ViewAll, "", 0, 1)
	require.NoError(t, err)
	assert.Len(t, page1, 10)
	assert.Equal(t, 2, meta1.TotalPages)
	assert.True(t, meta1.HasNext)
	assert.False(t, meta1.HasPrev)

	page2, meta2, err := feed.List(context.Background(), ViewAll, "", 0, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 3)
	assert.False(t, meta2.HasNext)
	assert.True(t, meta2.HasPrev)

	// Requests past the end serve the last page's content.
	page3, meta3, err := feed.List(context.Background(), ViewAll, "", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, meta3.Page)
	require.Len(t, page3, 3)
	assert.Equal(t, page2[0].ID, page3[0].ID)
}

func TestFeedListByGroup(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)
	author := seedUser(t, db, "dina")
	group := seedGroup(t, db, "Cooking", "cooking")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inGroup := seedGroupPost(t, db, author, group, "in group", base)
	seedPost(t, db, author, "no group", base.Add(time.Minute))

	posts, meta, err := feed.List(context.Background(), ViewGroup, "cooking", 0, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, inGroup.ID, posts[0].ID)
	assert.Equal(t, int64(1), meta.TotalItems)
	require.NotNil(t, posts[0].Group)
	assert.Equal(t, "cooking", posts[0].Group.Slug)
}

func TestFeedListByGroupEmpty(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)
	seedGroup(t, db, "Quiet", "quiet")

	posts, meta, err := feed.List(context.Background(), ViewGroup, "quiet", 0, 1)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), meta.TotalItems)
}

func TestFeedListByGroupUnknownSlug(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)

	_, _, err := feed.List(context.Background(), ViewGroup, "nonexistent-slug", 0, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedListByAuthor(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedPost(t, db, alice, "by alice", base)
	seedPost(t, db, bob, "by bob", base.Add(time.Minute))

	posts, _, err := feed.List(context.Background(), ViewAuthor, "alice", 0, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "by alice", posts[0].Text)

	_, _, err = feed.List(context.Background(), ViewAuthor, "nobody", 0, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedListFollowing(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)
	follows := NewFollowService(db)
	reader := seedUser(t, db, "reader")
	followed := seedUser(t, db, "followed")
	ignored := seedUser(t, db, "ignored")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	wanted := seedPost(t, db, followed, "from followed", base)
	seedPost(t, db, ignored, "from ignored", base.Add(time.Minute))

	// Follows nobody yet: empty page, not an error. The slice must be
	// non-nil so clients see [] rather than null.
	posts, meta, err := feed.List(context.Background(), ViewFollowing, "", reader.ID, 1)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), meta.TotalItems)

	_, err = follows.Follow(context.Background(), reader.ID, "followed")
	require.NoError(t, err)

	posts, _, err = feed.List(context.Background(), ViewFollowing, "", reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, wanted.ID, posts[0].ID)
}

func TestFeedListFollowingUnauthenticated(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)
	author := seedUser(t, db, "someone")
	seedPost(t, db, author, "visible to all views", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	posts, meta, err := feed.List(context.Background(), ViewFollowing, "", 0, 1)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestFeedListUnknownViewKind(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db, 10)

	_, _, err := feed.List(context.Background(), ViewKind("bogus"), "", 0, 1)
	assert.ErrorIs(t, err, ErrInvalid)
}
