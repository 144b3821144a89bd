package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avezhov/pulse/config"
	"github.com/avezhov/pulse/middleware"
	"github.com/avezhov/pulse/services"
	"github.com/avezhov/pulse/utils"
)

// getUserID pulls the authenticated user id set by the identity middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// getUsername pulls the authenticated username set by the identity middleware.
func getUsername(ctx *gin.Context) string {
	v, ok := ctx.Get(middleware.ContextUsernameKey)
	if !ok {
		return ""
	}
	name, _ := v.(string)
	return name
}

// isAdmin reports whether the authenticated user is listed as an admin.
func isAdmin(ctx *gin.Context) bool {
	name := getUsername(ctx)
	if name == "" {
		return false
	}
	for _, admin := range config.Get().AdminUsernames {
		if admin == name {
			return true
		}
	}
	return false
}

// parsePage reads the 1-based page query parameter, falling back to 1.
func parsePage(ctx *gin.Context) int {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// respondServiceError maps service error kinds onto HTTP statuses and the
// uniform JSON envelope.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40300, err.Error())
	case errors.Is(err, services.ErrDuplicate):
		utils.Error(ctx, http.StatusConflict, 40900, err.Error())
	case errors.Is(err, services.ErrInvalid):
		utils.Error(ctx, http.StatusBadRequest, 40000, err.Error())
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal error")
	}
}
