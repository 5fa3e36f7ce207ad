package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Authenticated verifies the access token cookie and loads the caller's
// identity into the echo context. An expired access token is refreshed
// transparently from the refresh token cookie. Missing or bad credentials
// map to 401.
func (t *TokenService) Authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, newAccess, newRefresh, err := t.checkCookie(c)
		if err != nil {
			return err
		}

		if newRefresh != "" {
			c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
			c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// RequirePermission gates a route on one named permission. The admin role
// passes every check. Runs after Authenticated, so a missing identity is 401
// while a present identity without the permission is 403.
func (t *TokenService) RequirePermission(code string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return t.Authenticated(func(c echo.Context) error {
			if Role(c) == "admin" {
				return next(c)
			}
			for _, p := range Permissions(c) {
				if p == code {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		})
	}
}

func (t *TokenService) checkCookie(c echo.Context) (jwt.MapClaims, string, string, error) {
	asCookie, err := c.Cookie("accessToken")
	if err == nil && asCookie.Value != "" {
		tok, err := jwt.Parse(asCookie.Value, func(tk *jwt.Token) (interface{}, error) {
			if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signature method")
			}
			return t.JWTSecret, nil
		})
		if err == nil && tok.Valid {
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return nil, "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			return claims, "", "", nil
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return nil, "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	rfCookie, err := c.Cookie("refreshToken")
	if err != nil || rfCookie.Value == "" {
		return nil, "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}

	newAccess, newRefresh, claims, err := t.RotateToken(rfCookie.Value)
	if err != nil {
		return nil, "", "", echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	return claims, newAccess, newRefresh, nil
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(float64); ok {
		c.Set("userID", uint(sub))
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
	if raw, ok := claims["perms"].([]interface{}); ok {
		perms := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				perms = append(perms, s)
			}
		}
		c.Set("perms", perms)
	}
}

// UserID returns the authenticated caller's id set by Authenticated.
func UserID(c echo.Context) (uint, error) {
	if id, ok := c.Get("userID").(uint); ok {
		return id, nil
	}
	return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
}

func Role(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	return ""
}

func Permissions(c echo.Context) []string {
	if perms, ok := c.Get("perms").([]string); ok {
		return perms
	}
	return nil
}
