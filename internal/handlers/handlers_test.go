package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vaughan-dsouza/medium-blog/internal/db/dbtest"
	"github.com/vaughan-dsouza/medium-blog/internal/handlers"
	"github.com/vaughan-dsouza/medium-blog/internal/models"
	"github.com/vaughan-dsouza/medium-blog/internal/utils"
	"github.com/vaughan-dsouza/medium-blog/pkg/schema"
)

const secret = "handlers-secret"

type okPinger struct{ err error }

func (p okPinger) PingContext(context.Context) error { return p.err }

func newHandler(t *testing.T) (*handlers.Handler, *gorm.DB) {
	orm := dbtest.New(t)
	return handlers.NewHandler(orm, okPinger{}, secret, time.Hour), orm
}

// routes mounts the post handlers with a fixed authenticated user.
func routes(h *handlers.Handler, userID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), userID)))
		})
	})
	r.Post("/user/signup", h.Auth.SignUp)
	r.Post("/user/signin", h.Auth.SignIn)
	r.Post("/post", h.Posts.CreatePost)
	r.Get("/post/bulk", h.Posts.GetPosts)
	r.Get("/post/{id}", h.Posts.GetPostByID)
	r.Put("/post/{id}", h.Posts.UpdatePost)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedUser(t *testing.T, orm *gorm.DB, email string) models.User {
	t.Helper()
	u := models.User{Email: email, Password: "hash"}
	require.NoError(t, orm.Create(&u).Error)
	return u
}

func TestSignUp(t *testing.T) {
	h, orm := newHandler(t)
	srv := routes(h, 0)

	t.Run("Success", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/user/signup", `{"name":"Ada","email":"Ada@Example.com","password":"secret1"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[schema.TokenResponse](t, rec)
		claims, err := utils.VerifyToken(resp.JWT, secret)
		require.NoError(t, err)

		var user models.User
		require.NoError(t, orm.First(&user, claims.UserID).Error)
		assert.Equal(t, "ada@example.com", user.Email)
		require.NotNil(t, user.Name)
		assert.Equal(t, "Ada", *user.Name)
		assert.NotEqual(t, "secret1", user.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/user/signup", `{"email":"ada@example.com","password":"another"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"error while signing up"}`, rec.Body.String())
	})

	t.Run("PasswordTooLongForBcrypt", func(t *testing.T) {
		body := fmt.Sprintf(`{"email":"long@example.com","password":%q}`, strings.Repeat("p", 80))
		rec := do(t, srv, http.MethodPost, "/user/signup", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decode[schema.ErrorResponse](t, rec)
		assert.Equal(t, []schema.FieldError{{Field: "password", Error: "must not exceed 72 bytes"}}, resp.Errors)

		var count int64
		require.NoError(t, orm.Model(&models.User{}).Where("email = ?", "long@example.com").Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/user/signup", `{"email":"not-an-email","password":"123"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decode[schema.ErrorResponse](t, rec)
		assert.Equal(t, "invalid input", resp.Error)
		assert.Len(t, resp.Errors, 2)
	})
}

func TestSignIn(t *testing.T) {
	h, _ := newHandler(t)
	srv := routes(h, 0)

	rec := do(t, srv, http.MethodPost, "/user/signup", `{"email":"grace@example.com","password":"hopper"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	signupClaims, err := utils.VerifyToken(decode[schema.TokenResponse](t, rec).JWT, secret)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/user/signin", `{"email":"GRACE@example.com","password":"hopper"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		claims, err := utils.VerifyToken(decode[schema.TokenResponse](t, rec).JWT, secret)
		require.NoError(t, err)
		assert.Equal(t, signupClaims.UserID, claims.UserID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/user/signin", `{"email":"grace@example.com","password":"cobol!"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/user/signin", `{"email":"nobody@example.com","password":"hopper"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
	})

	t.Run("ShortPassword", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/user/signin", `{"email":"grace@example.com","password":"abc"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreatePost(t *testing.T) {
	h, orm := newHandler(t)
	author := seedUser(t, orm, "author@example.com")
	srv := routes(h, author.ID)

	t.Run("Success", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/post", `{"title":"Hello","content":"World","published":true}`)
		require.Equal(t, http.StatusOK, rec.Code)

		blog := decode[schema.PostResponse](t, rec).Blog
		assert.NotZero(t, blog.ID)
		assert.Equal(t, "Hello", blog.Title)
		assert.Equal(t, "World", blog.Content)
		assert.True(t, blog.Published)
		assert.Equal(t, author.ID, blog.AuthorID)
	})

	t.Run("PublishedDefaultsFalse", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/post", `{"title":"Draft","content":"wip"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decode[schema.PostResponse](t, rec).Blog.Published)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/post", `{"content":"World"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[schema.ErrorResponse](t, rec)
		assert.Equal(t, []schema.FieldError{{Field: "title", Error: "is required"}}, resp.Errors)
	})

	t.Run("MissingContent", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/post", `{"title":"Hello"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownFieldRejected", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/post", `{"title":"x","content":"y","authorId":999}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetPosts(t *testing.T) {
	h, orm := newHandler(t)
	author := seedUser(t, orm, "author@example.com")
	srv := routes(h, author.ID)

	rec := do(t, srv, http.MethodGet, "/post/bulk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"blog":[]}`, rec.Body.String())

	require.NoError(t, orm.Create(&models.Post{Title: "one", Content: "1", AuthorID: author.ID}).Error)
	require.NoError(t, orm.Create(&models.Post{Title: "two", Content: "2", AuthorID: author.ID}).Error)

	rec = do(t, srv, http.MethodGet, "/post/bulk", "")
	require.Equal(t, http.StatusOK, rec.Code)

	blogs := decode[schema.PostListResponse](t, rec).Blog
	require.Len(t, blogs, 2)
	assert.Equal(t, "one", blogs[0].Title)
	assert.Equal(t, "two", blogs[1].Title)
}

func TestGetPostByID(t *testing.T) {
	h, orm := newHandler(t)
	author := seedUser(t, orm, "author@example.com")
	srv := routes(h, author.ID)

	post := models.Post{Title: "Hello", Content: "World", AuthorID: author.ID}
	require.NoError(t, orm.Create(&post).Error)

	t.Run("Success", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/post/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		blog := decode[schema.PostResponse](t, rec).Blog
		assert.Equal(t, post.ID, blog.ID)
		assert.Equal(t, "Hello", blog.Title)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/post/404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"post not found"}`, rec.Body.String())
	})

	t.Run("InvalidID", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-3"} {
			rec := do(t, srv, http.MethodGet, "/post/"+id, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		}
	})

	t.Run("DatabaseFailure", func(t *testing.T) {
		broken, brokenORM := newHandler(t)
		sqlDB, err := brokenORM.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		rec := do(t, routes(broken, author.ID), http.MethodGet, "/post/1", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"error while fetching post"}`, rec.Body.String())
	})
}

func TestUpdatePost(t *testing.T) {
	h, orm := newHandler(t)
	author := seedUser(t, orm, "author@example.com")
	srv := routes(h, author.ID)

	post := models.Post{Title: "Hello", Content: "World", AuthorID: author.ID}
	require.NoError(t, orm.Create(&post).Error)

	t.Run("RoundTrip", func(t *testing.T) {
		rec := do(t, srv, http.MethodPut, "/post/1", `{"title":"Hello again"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1}`, rec.Body.String())

		rec = do(t, srv, http.MethodGet, "/post/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		blog := decode[schema.PostResponse](t, rec).Blog
		assert.Equal(t, "Hello again", blog.Title)
		assert.Equal(t, "World", blog.Content)
	})

	t.Run("BothFields", func(t *testing.T) {
		rec := do(t, srv, http.MethodPut, "/post/1", `{"id":1,"title":"T","content":"C"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var stored models.Post
		require.NoError(t, orm.First(&stored, post.ID).Error)
		assert.Equal(t, "T", stored.Title)
		assert.Equal(t, "C", stored.Content)
	})

	t.Run("RetryReapplies", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := do(t, srv, http.MethodPut, "/post/1", `{"content":"same"}`)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("IDMismatch", func(t *testing.T) {
		rec := do(t, srv, http.MethodPut, "/post/1", `{"id":2,"title":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := do(t, srv, http.MethodPut, "/post/77", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadBody", func(t *testing.T) {
		rec := do(t, srv, http.MethodPut, "/post/1", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.NewHealthHandler(okPinger{}).Check(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handlers.NewHealthHandler(okPinger{err: errors.New("down")}).Check(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
