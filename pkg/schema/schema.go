// Package schema holds the request and response shapes shared by the blog
// server and its clients. Request types carry validator tags and validate
// themselves, so both sides reject the same inputs.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names ("email") instead of Go field names ("Email")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// max counts runes, bcrypt counts bytes
	_ = v.RegisterValidation("passwordbytes", func(fl validator.FieldLevel) bool {
		return len([]byte(fl.Field().String())) <= MaxPasswordBytes
	})

	return v
}

// FieldErrors turns a Validate error into per-field messages. The second
// result is false when err did not come from the validator.
func FieldErrors(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Error: fieldMessage(fe)})
	}
	return out, true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "passwordbytes":
		return fmt.Sprintf("must not exceed %d bytes", MaxPasswordBytes)
	}

	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
	return "failed " + fe.Tag()
}

// ---------------------- REQUESTS ----------------------

type SignupInput struct {
	Name     *string `json:"name,omitempty"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,passwordbytes"`
}

func (in *SignupInput) Validate() error {
	return validate.Struct(in)
}

type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,passwordbytes"`
}

func (in *SigninInput) Validate() error {
	return validate.Struct(in)
}

type CreatePostInput struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Published *bool  `json:"published,omitempty"`
}

func (in *CreatePostInput) Validate() error {
	return validate.Struct(in)
}

// UpdatePostInput patches a post. Nil fields are left untouched.
type UpdatePostInput struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	ID      int64   `json:"id" validate:"required,gt=0"`
}

func (in *UpdatePostInput) Validate() error {
	return validate.Struct(in)
}

// ---------------------- RESPONSES ----------------------

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PostResponse struct {
	Blog Post `json:"blog"`
}

type PostListResponse struct {
	Blog []Post `json:"blog"`
}

type UpdatePostResponse struct {
	ID int64 `json:"id"`
}

type TokenResponse struct {
	JWT string `json:"jwt"`
}

// FieldError describes one rejected field, e.g. {"field":"email","error":"must be a valid email address"}.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ErrorResponse struct {
	Error  string       `json:"error"`
	Errors []FieldError `json:"errors,omitempty"`
}
