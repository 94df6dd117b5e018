package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/task-manager/internal/application/auth"
	"github.com/baechuer/task-manager/internal/domain"
)

type JWTSigner struct {
	secret []byte
}

func NewJWTSigner(secret string) *JWTSigner {
	return &JWTSigner{secret: []byte(secret)}
}

// sessionClaims is the token payload: {"id": <user id>, "iat", "exp"}.
type sessionClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) SignAccessToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenClaims{}, domain.ErrTokenExpired()
		}
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	return auth.TokenClaims{
		UserID: claims.UserID,
		Exp:    claims.ExpiresAt.Time,
	}, nil
}
