package utils

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// context key
type ctxKey string

const CtxUserIDKey ctxKey = "user_id"

var ErrNoUserID = errors.New("token carries no user id")

// Claims carries the author id under "id", which is what the blog
// frontend reads back out of the token.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, CtxUserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func GenerateToken(userID int64, secret string, ttl time.Duration) (string, int64, error) {
	if secret == "" {
		return "", 0, errors.New("secret not configured")
	}

	now := time.Now()
	expTime := now.Add(ttl)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expTime.Unix(), nil
}

func VerifyToken(tokenStr, secret string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("secret not configured")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)

	var claims Claims

	_, err := parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims.UserID <= 0 {
		return nil, ErrNoUserID
	}

	return &claims, nil
}
