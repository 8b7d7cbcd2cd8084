package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/vaughan-dsouza/medium-blog/internal/errs"
	"github.com/vaughan-dsouza/medium-blog/internal/models"
	"github.com/vaughan-dsouza/medium-blog/internal/utils"
	"github.com/vaughan-dsouza/medium-blog/internal/validation"
	"github.com/vaughan-dsouza/medium-blog/pkg/schema"
)

type PostHandler struct {
	DB *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{DB: db}
}

// ---------------------- CREATE ----------------------

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, errs.NewUnauthorizedError())
		return
	}

	var body schema.CreatePostInput
	if herr := validation.DecodeAndValidate(r, &body); herr != nil {
		utils.WriteError(w, herr)
		return
	}

	post := models.Post{
		Title:     body.Title,
		Content:   body.Content,
		Published: body.Published != nil && *body.Published,
		AuthorID:  userID,
	}

	if err := h.DB.WithContext(r.Context()).Create(&post).Error; err != nil {
		log.Error().Err(err).Msg("create post")
		utils.WriteError(w, errs.NewForbiddenError("error while creating post"))
		return
	}

	log.Info().Int64("post_id", post.ID).Msg("post created")
	utils.JSON(w, http.StatusOK, schema.PostResponse{Blog: post.ToSchema()})
}

// ---------------------- LIST ----------------------

func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	var posts []models.Post

	if err := h.DB.WithContext(r.Context()).Order("id").Find(&posts).Error; err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list posts")
		utils.WriteError(w, errs.NewForbiddenError("error while fetching posts"))
		return
	}

	utils.JSON(w, http.StatusOK, schema.PostListResponse{Blog: models.PostsToSchema(posts)})
}

// ---------------------- GET ONE ----------------------

func (h *PostHandler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	id, herr := postID(r)
	if herr != nil {
		utils.WriteError(w, herr)
		return
	}

	var post models.Post
	err := h.DB.WithContext(r.Context()).First(&post, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteError(w, errs.NewNotFoundError("post not found"))
		return
	}

	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("post_id", id).Msg("get post")
		utils.WriteError(w, errs.NewForbiddenError("error while fetching post"))
		return
	}

	utils.JSON(w, http.StatusOK, schema.PostResponse{Blog: post.ToSchema()})
}

// ---------------------- UPDATE ----------------------

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	id, herr := postID(r)
	if herr != nil {
		utils.WriteError(w, herr)
		return
	}

	var body schema.UpdatePostInput
	if herr := validation.Decode(r, &body); herr != nil {
		utils.WriteError(w, herr)
		return
	}

	if body.ID != 0 && body.ID != id {
		utils.WriteError(w, errs.NewBadRequestError("id in body does not match path", []errs.FieldError{
			{Field: "id", Error: "must match the post id in the path"},
		}))
		return
	}
	body.ID = id

	if herr := validation.Check(&body); herr != nil {
		utils.WriteError(w, herr)
		return
	}

	updates := map[string]any{"updated_at": time.Now()}
	if body.Title != nil {
		updates["title"] = *body.Title
	}
	if body.Content != nil {
		updates["content"] = *body.Content
	}

	res := h.DB.WithContext(r.Context()).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(updates)

	if res.Error != nil {
		log.Error().Err(res.Error).Int64("post_id", id).Msg("update post")
		utils.WriteError(w, errs.NewForbiddenError("error while updating post"))
		return
	}

	if res.RowsAffected == 0 {
		utils.WriteError(w, errs.NewNotFoundError("post not found"))
		return
	}

	utils.JSON(w, http.StatusOK, schema.UpdatePostResponse{ID: id})
}

func postID(r *http.Request) (int64, *errs.HTTPError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewBadRequestError("invalid post id", nil)
	}
	return id, nil
}
