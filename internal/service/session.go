package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const sessionTTL = 24 * time.Hour

// SessionService signs and checks the admin panel session token. There is a
// single admin identity, so no refresh rotation is carried here.
type SessionService struct {
	JWTSecret []byte
}

func (t *SessionService) CreateAdminToken() (string, time.Time, error) {
	exp := time.Now().Add(sessionTTL)
	claims := jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"exp":  exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.JWTSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (t *SessionService) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", token.Header["alg"])
		}
		return t.JWTSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("cannot parse claims")
	}
	return claims, nil
}

// RequireAdmin gates the admin routes. The token is taken from the
// accessToken cookie or an Authorization bearer header.
func (t *SessionService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := ""
		if cookie, err := c.Cookie("accessToken"); err == nil {
			raw = cookie.Value
		}
		if raw == "" {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw = strings.TrimPrefix(header, "Bearer ")
		}
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "session token missing")
		}

		claims, err := t.parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
		}
		if role, _ := claims["role"].(string); role != "admin" {
			return echo.NewHTTPError(http.StatusUnauthorized, "admin role required")
		}

		c.Set("role", "admin")
		return next(c)
	}
}
