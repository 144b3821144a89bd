package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avezhov/pulse/services"
	"github.com/avezhov/pulse/utils"
)

// FollowController serves follow/unfollow and subscription status.
type FollowController struct {
	follows *services.FollowService
	users   *services.UserService
}

// NewFollowController creates a FollowController.
func NewFollowController(follows *services.FollowService, users *services.UserService) *FollowController {
	return &FollowController{follows: follows, users: users}
}

// Follow subscribes the viewer to an author. Idempotent: following an
// already followed author succeeds.
func (f *FollowController) Follow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if err := f.users.Ensure(ctx.Request.Context(), userID, getUsername(ctx)); err != nil {
		respondServiceError(ctx, err)
		return
	}
	edge, err := f.follows.Follow(ctx.Request.Context(), userID, ctx.Param("username"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"follow": edge})
}

// Unfollow removes the viewer's subscription to an author.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if err := f.follows.Unfollow(ctx.Request.Context(), userID, ctx.Param("username")); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "unfollowed"})
}

// Status reports whether the viewer follows the author.
func (f *FollowController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	author, err := f.users.GetByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	following, err := f.follows.IsFollowing(ctx.Request.Context(), userID, author.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"following": following})
}
