package jwt

import (
	"RecipeAPI/domain"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v4"
	"time"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type (
	JWTService interface {
		GenerateAccessToken(userID string, role string) (string, error)
		GenerateRefreshToken(userID string, role string) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, error)
		GetUserIDByRefreshToken(token string) (string, string, error)
		AccessTTL() time.Duration
	}

	jwtUserClaim struct {
		UserID    string `json:"user_id"`
		Role      string `json:"role"`
		TokenType string `json:"typ"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey  string
		issuer     string
		accessTTL  time.Duration
		refreshTTL time.Duration
	}
)

func NewJWTService(secretKey string, accessTTL, refreshTTL time.Duration) JWTService {
	return &jwtService{
		secretKey:  secretKey,
		issuer:     "RECIPE_API",
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (j *jwtService) AccessTTL() time.Duration {
	return j.accessTTL
}

func (j *jwtService) GenerateAccessToken(userID string, role string) (string, error) {
	return j.generate(userID, role, TokenTypeAccess, j.accessTTL)
}

func (j *jwtService) GenerateRefreshToken(userID string, role string) (string, error) {
	return j.generate(userID, role, TokenTypeRefresh, j.refreshTTL)
}

func (j *jwtService) generate(userID, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtUserClaim{
		userID,
		role,
		tokenType,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserIDByToken(token string) (string, string, error) {
	return j.claimsOfType(token, TokenTypeAccess)
}

func (j *jwtService) GetUserIDByRefreshToken(token string) (string, string, error) {
	return j.claimsOfType(token, TokenTypeRefresh)
}

func (j *jwtService) claimsOfType(token, tokenType string) (string, string, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrTokenExpired
		}
		return "", "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || claims.TokenType != tokenType || claims.UserID == "" {
		return "", "", domain.ErrTokenInvalid
	}
	return claims.UserID, claims.Role, nil
}
