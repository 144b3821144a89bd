package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avezhov/pulse/cache"
	"github.com/avezhov/pulse/services"
	"github.com/avezhov/pulse/utils"
)

// FeedCacheKey is the single fixed key under which the rendered landing
// feed is memoized. The blob is not parameterized by viewer, page, or
// filters; whichever request misses first fills it for everyone until the
// TTL runs out or an operator clears it.
const FeedCacheKey = "cache:feed:index"

// PostController serves post listings and the post/comment write path.
type PostController struct {
	posts   *services.PostService
	feed    *services.FeedService
	users   *services.UserService
	store   cache.Store
	feedTTL time.Duration
}

// NewPostController wires the controller with its services and the injected
// page cache.
func NewPostController(posts *services.PostService, feed *services.FeedService, users *services.UserService, store cache.Store, feedTTL time.Duration) *PostController {
	return &PostController{
		posts:   posts,
		feed:    feed,
		users:   users,
		store:   store,
		feedTTL: feedTTL,
	}
}

func listPayload(posts interface{}, meta services.PageMeta) gin.H {
	return gin.H{"items": posts, "pagination": meta}
}

// ListPosts returns the landing feed (every post, newest first). The
// rendered response body is cached for the configured TTL; within that
// window mutations are deliberately not reflected.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := p.store.Get(ctx.Request.Context(), FeedCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	posts, meta, err := p.feed.List(ctx.Request.Context(), services.ViewAll, "", 0, parsePage(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	body, err := json.Marshal(utils.JSONResponse{Code: 0, Message: "success", Data: listPayload(posts, meta)})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to render feed")
		return
	}
	p.store.Set(ctx.Request.Context(), FeedCacheKey, body, p.feedTTL)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// ListGroupPosts returns posts filed under a group slug.
func (p *PostController) ListGroupPosts(ctx *gin.Context) {
	posts, meta, err := p.feed.List(ctx.Request.Context(), services.ViewGroup, ctx.Param("slug"), 0, parsePage(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, listPayload(posts, meta))
}

// ListAuthorPosts returns posts published by one author.
func (p *PostController) ListAuthorPosts(ctx *gin.Context) {
	posts, meta, err := p.feed.List(ctx.Request.Context(), services.ViewAuthor, ctx.Param("username"), 0, parsePage(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, listPayload(posts, meta))
}

// Following returns the personalized feed: posts from authors the viewer
// follows. Requires identity; a viewer following nobody gets an empty page.
func (p *PostController) Following(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	posts, meta, err := p.feed.List(ctx.Request.Context(), services.ViewFollowing, "", userID, parsePage(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, listPayload(posts, meta))
}

// GetPost returns a single post with its comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid post id")
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// CreatePost publishes a post for the authenticated user.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Text      string `json:"text" binding:"required"`
		GroupSlug string `json:"group_slug"`
		Image     string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	text := utils.Sanitize(req.Text)
	if strings.TrimSpace(text) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "text cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if err := p.users.Ensure(ctx.Request.Context(), userID, getUsername(ctx)); err != nil {
		respondServiceError(ctx, err)
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), userID, text, strings.TrimSpace(req.GroupSlug), req.Image)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost lets the author edit a post's text and group assignment.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid post id")
		return
	}

	var req struct {
		Text      string  `json:"text" binding:"required"`
		GroupSlug *string `json:"group_slug"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	text := utils.Sanitize(req.Text)
	if strings.TrimSpace(text) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "text cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post, err := p.posts.Update(ctx.Request.Context(), uint(id), userID, text, req.GroupSlug)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost lets the author remove a post together with its comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid post id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if err := p.posts.Delete(ctx.Request.Context(), uint(id), userID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment attaches a comment to a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid post id")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}
	text := utils.Sanitize(req.Text)
	if strings.TrimSpace(text) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "text cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if err := p.users.Ensure(ctx.Request.Context(), userID, getUsername(ctx)); err != nil {
		respondServiceError(ctx, err)
		return
	}

	comment, err := p.posts.AddComment(ctx.Request.Context(), uint(id), userID, text)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// ClearFeedCache drops the cached landing feed out of band. Admin only;
// intended for operators and test tooling, not for routine invalidation.
func (p *PostController) ClearFeedCache(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40310, "admin only")
		return
	}
	p.store.Clear(ctx.Request.Context(), FeedCacheKey)
	utils.Success(ctx, gin.H{"message": "feed cache cleared"})
}
