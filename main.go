package main

import (
	"log"

	"github.com/galleried/galleria/config"
	"github.com/galleried/galleria/db"
	"github.com/galleried/galleria/server"
	"github.com/galleried/galleria/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	redisClient := db.NewRedisClient(conf)
	tokenStore := db.NewTokenStore(redisClient)

	authRepo := db.NewAuthRepo(gormDB)
	mediaRepo := db.NewMediaRepo(gormDB)
	commentRepo := db.NewCommentRepo(gormDB)
	ratingRepo := db.NewRatingRepo(gormDB)

	storage, err := services.NewS3Storage(conf)
	if err != nil {
		log.Fatalf("unable to initialize media storage: %v", err)
	}

	authService := services.NewAuthService(authRepo, tokenStore, conf)
	mediaService := services.NewMediaService(mediaRepo, commentRepo, ratingRepo, authRepo, storage, conf)

	s := &server.Server{
		Config:         conf,
		AuthRepository: authRepo,
		TokenStore:     tokenStore,
		AuthService:    authService,
		MediaService:   mediaService,
	}

	s.Start()
}
