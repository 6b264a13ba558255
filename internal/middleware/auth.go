package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"santimsentry/internal/config"
	"santimsentry/internal/models"
)

// GuestIDHeader carries a raw user id for anonymous profiles. There is no
// secret behind it: anyone who knows a guest id can act as that guest. That
// is the product's anonymous-profile trust boundary, not an oversight.
const GuestIDHeader = "X-Guest-Id"

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the session JWT
type JWTClaims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// GenerateToken generates a signed session token for a user.
func GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().JWTExpirationDur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "santimsentry-api",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// ParseToken parses and validates a session token, returning its claims.
func ParseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// AuthMiddleware resolves the request identity before protected handlers run.
// It accepts either a Bearer session token or the guest-id header, and in
// both cases verifies that the user row still exists, so tokens for deleted
// accounts are rejected even when structurally valid.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveBearer(c)
		isGuest := false

		if !ok {
			userID, ok = resolveGuest(c)
			isGuest = true
		}

		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			c.Abort()
			return
		}

		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil || count == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("isGuest", isGuest)
		c.Next()
	}
}

func resolveBearer(c *gin.Context) (uint, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	claims, err := ParseToken(parts[1])
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}

func resolveGuest(c *gin.Context) (uint, bool) {
	raw := c.GetHeader(GuestIDHeader)
	if raw == "" {
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
