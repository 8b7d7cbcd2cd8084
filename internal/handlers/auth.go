package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vaughan-dsouza/medium-blog/internal/errs"
	"github.com/vaughan-dsouza/medium-blog/internal/models"
	"github.com/vaughan-dsouza/medium-blog/internal/utils"
	"github.com/vaughan-dsouza/medium-blog/internal/validation"
	"github.com/vaughan-dsouza/medium-blog/pkg/schema"
)

type AuthHandler struct {
	DB     *gorm.DB
	secret string
	ttl    time.Duration
}

func NewAuthHandler(db *gorm.DB, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{DB: db, secret: secret, ttl: ttl}
}

// -------------- SIGN UP ----------------------

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	var req schema.SignupInput
	if herr := validation.DecodeAndValidate(r, &req); herr != nil {
		utils.WriteError(w, herr)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("hash password")
		utils.WriteError(w, errs.NewInternalServerError())
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    normalizeEmail(req.Email),
		Password: string(hash),
	}

	if err := h.DB.WithContext(r.Context()).Create(&user).Error; err != nil {
		log.Warn().Err(err).Msg("create user")
		utils.WriteError(w, errs.NewForbiddenError("error while signing up"))
		return
	}

	h.respondWithToken(w, r, user.ID)
}

// -------------- SIGN IN ----------------------

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	var req schema.SigninInput
	if herr := validation.DecodeAndValidate(r, &req); herr != nil {
		utils.WriteError(w, herr)
		return
	}

	var user models.User
	err := h.DB.WithContext(r.Context()).
		Where("email = ?", normalizeEmail(req.Email)).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteError(w, errs.NewForbiddenError("invalid credentials"))
		return
	}

	if err != nil {
		log.Error().Err(err).Msg("find user")
		utils.WriteError(w, errs.NewForbiddenError("error while signing in"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.WriteError(w, errs.NewForbiddenError("invalid credentials"))
		return
	}

	h.respondWithToken(w, r, user.ID)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, userID int64) {
	token, _, err := utils.GenerateToken(userID, h.secret, h.ttl)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("sign token")
		utils.WriteError(w, errs.NewInternalServerError())
		return
	}

	utils.JSON(w, http.StatusOK, schema.TokenResponse{JWT: token})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
