package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserClaim struct {
	ID string `json:"id"`
}

// Claims carries {user: {id}} plus the registered iat/exp claims.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

func MakeAccess(secret, uid string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		User: UserClaim{ID: uid},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func ParseAccess(secret, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.User.ID == "" {
		return nil, errors.New("invalid token")
	}
	return c, nil
}
