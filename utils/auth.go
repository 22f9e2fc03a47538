// utils/auth.go
package utils

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func expiryHours(envKey string, fallback int) int {
	if env := os.Getenv(envKey); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			return h
		}
	}
	return fallback
}

func signToken(claims jwt.MapClaims) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAccessToken issues a short-lived token used on every API request.
func GenerateAccessToken(userID string) (string, error) {
	hours := expiryHours("JWT_ACCESS_EXPIRY_HOURS", 24)
	return signToken(jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Duration(hours) * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
}

// GenerateRefreshToken issues a long-lived token accepted only by the token
// refresh endpoint, marked with typ=refresh.
func GenerateRefreshToken(userID string) (string, error) {
	hours := expiryHours("JWT_REFRESH_EXPIRY_HOURS", 24*7)
	return signToken(jwt.MapClaims{
		"sub": userID,
		"typ": "refresh",
		"exp": time.Now().Add(time.Duration(hours) * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ParseRefreshToken validates a refresh token and returns the user ID.
func ParseRefreshToken(tokenString string) (string, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return "", err
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return "", errors.New("not a refresh token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing subject")
	}
	return sub, nil
}

// Auth middleware
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Authorization header required"})
			return
		}

		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		claims, err := parseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid token"})
			return
		}

		// Refresh tokens are not valid for API access
		if typ, _ := claims["typ"].(string); typ == "refresh" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Set("userId", sub)
		c.Next()
	}
}
