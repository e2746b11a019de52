package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the fixed cookie key carrying the auth token.
const CookieName = "auth_token"

// SetAuthCookie binds the token to the response. HTTPOnly is deliberately
// off: the browser-side identity cache reads this cookie directly.
func SetAuthCookie(c *fiber.Ctx, token string, maxAge time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearAuthCookie removes the auth cookie immediately.
func ClearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// AuthToken reads the token from the request cookie, if present.
func AuthToken(c *fiber.Ctx) (string, bool) {
	token := c.Cookies(CookieName)
	return token, token != ""
}
