package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"assesshub_backend/internal/config"
	"assesshub_backend/internal/models"
)

type Claims struct {
	UserID    string          `json:"user_id"`
	CompanyID string          `json:"company_id,omitempty"`
	Role      models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues an access token for the user. Lifetime comes from
// config (jwt.ttl, minutes).
func GenerateToken(user *models.User) (string, error) {
	cfg := config.GetConfig()

	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	claims := &Claims{
		UserID:    user.ID,
		CompanyID: companyID,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.JWT.TTL) * time.Minute)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ParseToken validates a signed access token and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.GetConfig()

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func IsSuperAdmin(claims *Claims) bool {
	return claims.Role == models.UserRoleSuperAdmin
}
