package main

import (
	"time"

	"github.com/avezhov/pulse/cache"
	"github.com/avezhov/pulse/config"
	"github.com/avezhov/pulse/models"
	"github.com/avezhov/pulse/routes"
	"github.com/avezhov/pulse/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.UploadedImage{},
	)

	store := cache.NewRedisStore(utils.GetRedis())
	r := routes.SetupRouter(db, store)

	// Reap image uploads that never got attached to a post
	utils.StartImageCleaner(5 * time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
