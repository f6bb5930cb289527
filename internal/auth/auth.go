package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/timechronos/internal"
)

// Claims carries the verified identity of a user. Access and refresh tokens
// embed the full actor so the middleware never touches the database; reset
// tokens set Purpose and are signed with a separate secret.
type Claims struct {
	UserID    int64  `json:"user_id"`
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	Purpose   string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

const PurposePasswordReset = "password_reset"

func (c *Claims) Actor() internal.Actor {
	return internal.Actor{
		UserID:    c.UserID,
		CompanyID: c.CompanyID,
		Role:      c.Role,
		Email:     c.Email,
	}
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenGenerator creates and validates the three token kinds.
type TokenGenerator interface {
	GenerateAccessToken(actor internal.Actor) (string, error)
	GenerateRefreshToken(actor internal.Actor) (string, error)
	GenerateResetToken(userID int64, email string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	ValidateResetToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	ResetTokenSecret   []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ResetTokenTTL      time.Duration
}

func NewJWTTokenGenerator(cfg internal.SecurityConfig) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(cfg.AccessTokenSecret),
		RefreshTokenSecret: []byte(cfg.RefreshTokenSecret),
		ResetTokenSecret:   []byte(cfg.ResetTokenSecret),
		AccessTokenTTL:     cfg.AccessTokenDuration,
		RefreshTokenTTL:    cfg.RefreshTokenDuration,
		ResetTokenTTL:      cfg.ResetTokenDuration,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(actor internal.Actor) (string, error) {
	return j.sign(claimsFor(actor, "", j.AccessTokenTTL), j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(actor internal.Actor) (string, error) {
	return j.sign(claimsFor(actor, "", j.RefreshTokenTTL), j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) GenerateResetToken(userID int64, email string) (string, error) {
	claims := claimsFor(internal.Actor{UserID: userID, Email: email}, PurposePasswordReset, j.ResetTokenTTL)
	return j.sign(claims, j.ResetTokenSecret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.parse(tokenString, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) ValidateResetToken(tokenString string) (*Claims, error) {
	claims, err := j.parse(tokenString, j.ResetTokenSecret)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposePasswordReset {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func claimsFor(actor internal.Actor, purpose string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		UserID:    actor.UserID,
		CompanyID: actor.CompanyID,
		Role:      actor.Role,
		Email:     actor.Email,
		Purpose:   purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", actor.UserID),
		},
	}
}

func (j *JWTTokenGenerator) sign(claims *Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) parse(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BcryptHasher also backs user.PasswordHasher.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var (
	ErrInvalidCredentials = internal.NewUnauthorizedError("incorrect email or password", internal.ErrCodeInvalidCredentials)
	ErrInvalidToken       = internal.NewUnauthorizedError("invalid token", internal.ErrCodeInvalidToken)
	ErrTokenExpired       = internal.NewUnauthorizedError("token expired", internal.ErrCodeTokenExpired)
	ErrUserInactive       = internal.NewUnauthorizedError("user is inactive", internal.ErrCodeUserInactive)
	ErrUserNotFound       = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrEmailTaken         = internal.NewConflictError("a user with this email already exists in the company", internal.ErrCodeDuplicateEmail)
)
