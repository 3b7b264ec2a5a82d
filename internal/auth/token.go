package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	now func() time.Time
}

// NewJWTTokenGenerator creates an HS256 generator. An empty refresh secret reuses the access secret.
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		now:                time.Now,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(identity Identity) (string, error) {
	return j.sign(identity, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(identity Identity) (string, error) {
	return j.sign(identity, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(identity Identity, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(identity, ttl, now()))
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) validate(tokenString string, secret []byte) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if j.now != nil {
		opts = append(opts, jwt.WithTimeFunc(j.now))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
