package controllers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avezhov/pulse/config"
	"github.com/avezhov/pulse/models"
	"github.com/avezhov/pulse/utils"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadController stores post image attachments on disk and records them
// for the orphan cleaner. The returned URL is what clients pass back in the
// post create/update payload.
type UploadController struct {
	db *gorm.DB
}

// NewUploadController creates an UploadController.
func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{db: db}
}

// UploadImage saves a multipart image under a random filename and returns
// its public URL. Uploads not attached to a post before the configured TTL
// are removed by the background cleaner.
func (u *UploadController) UploadImage(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "image file missing")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		utils.Error(ctx, http.StatusBadRequest, 40041, "unsupported image type")
		return
	}

	cfg := config.Get()
	name := uuid.NewString() + ext
	path := filepath.Join(cfg.UploadDir, name)
	if err := ctx.SaveUploadedFile(file, path); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to store image")
		return
	}

	record := models.UploadedImage{
		AuthorID: userID,
		FilePath: path,
		URL:      "/static/uploads/" + name,
		ExpireAt: time.Now().Add(time.Duration(cfg.UploadTTLMinutes) * time.Minute),
	}
	if err := u.db.WithContext(ctx.Request.Context()).Create(&record).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to record image")
		return
	}

	utils.Success(ctx, gin.H{"url": record.URL})
}
