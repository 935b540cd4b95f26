package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
}

// AuthJWT memverifikasi Bearer token (HMAC) dan menghydrate Locals:
// user_id, user_name, user_email, is_admin. Penyimpanan identitas sendiri
// ada di service auth eksternal; di sini hanya parse klaim.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verifikasi algoritma
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		c.Locals("jwt_claims", claims)

		if sid := strClaim(claims, "sub"); sid != "" {
			c.Locals("user_id", sid)
		} else if sid := strClaim(claims, "user_id"); sid != "" {
			c.Locals("user_id", sid)
		}
		if v := strClaim(claims, "name"); v != "" {
			c.Locals("user_name", v)
		}
		if v := strClaim(claims, "email"); v != "" {
			c.Locals("user_email", v)
		}

		if v, ok := claims["is_admin"]; ok {
			switch t := v.(type) {
			case bool:
				c.Locals("is_admin", t)
			case string:
				s := strings.ToLower(strings.TrimSpace(t))
				c.Locals("is_admin", s == "true" || s == "1" || s == "yes")
			}
		}

		return c.Next()
	}
}

// RequireAdmin menolak request tanpa klaim is_admin=true.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v, ok := c.Locals("is_admin").(bool); ok && v {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, "Akses khusus admin")
	}
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
