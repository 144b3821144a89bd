package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avezhov/pulse/services"
	"github.com/avezhov/pulse/utils"
)

// UserController handles the account removal hook called by the external
// identity system when an account goes away.
type UserController struct {
	users *services.UserService
}

// NewUserController creates a UserController.
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// DeleteMe removes the viewer's account mirror together with their posts,
// comments, and follow edges.
func (u *UserController) DeleteMe(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if err := u.users.Delete(ctx.Request.Context(), userID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "account data removed"})
}
