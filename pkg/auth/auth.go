package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Profile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Claims struct {
	jwt.RegisteredClaims
	Profile Profile `json:"profile"`
}

// JWTKey signs and verifies bearer tokens. Overridden by JWT_SECRET.
var JWTKey = []byte("reservation-secret")

func init() {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		JWTKey = []byte(key)
	}
}

type ctxKey int

const (
	userNameKey ctxKey = iota
	userRoleKey
)

var ErrNoIdentity = errors.New("no verified caller identity")

func SetAuthContext(ctx context.Context, userName, role string) context.Context {
	ctx = context.WithValue(ctx, userNameKey, userName)
	return context.WithValue(ctx, userRoleKey, role)
}

func UserName(ctx context.Context) (string, error) {
	name, ok := ctx.Value(userNameKey).(string)
	if !ok || name == "" {
		return "", ErrNoIdentity
	}
	return name, nil
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}
