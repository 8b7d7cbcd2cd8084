package handlers

import (
	"time"

	"gorm.io/gorm"
)

type Handler struct {
	Auth   *AuthHandler
	Posts  *PostHandler
	Health *HealthHandler
}

func NewHandler(db *gorm.DB, pinger Pinger, jwtSecret string, jwtTTL time.Duration) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(db, jwtSecret, jwtTTL),
		Posts:  NewPostHandler(db),
		Health: NewHealthHandler(pinger),
	}
}
