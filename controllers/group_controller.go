package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avezhov/pulse/services"
	"github.com/avezhov/pulse/utils"
)

// GroupController serves the administratively managed group catalog.
type GroupController struct {
	groups *services.GroupService
}

// NewGroupController creates a GroupController.
func NewGroupController(groups *services.GroupService) *GroupController {
	return &GroupController{groups: groups}
}

// ListGroups returns all groups.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := g.groups.List(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// GetGroup returns one group by slug.
func (g *GroupController) GetGroup(ctx *gin.Context) {
	group, err := g.groups.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// CreateGroup creates a group. Admin only; a duplicate slug is a conflict.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40310, "admin only")
		return
	}
	var req struct {
		Title       string `json:"title" binding:"required"`
		Slug        string `json:"slug" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	group, err := g.groups.Create(ctx.Request.Context(),
		utils.SanitizePlain(strings.TrimSpace(req.Title)),
		req.Slug,
		utils.Sanitize(req.Description),
	)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// UpdateGroup edits a group's title and description. The slug is immutable.
func (g *GroupController) UpdateGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40310, "admin only")
		return
	}
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid group id")
		return
	}
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	group, err := g.groups.Update(ctx.Request.Context(), uint(id),
		utils.SanitizePlain(strings.TrimSpace(req.Title)),
		utils.Sanitize(req.Description),
	)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group. Its posts survive with the group cleared.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40310, "admin only")
		return
	}
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid group id")
		return
	}
	if err := g.groups.Delete(ctx.Request.Context(), uint(id)); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "group deleted"})
}
