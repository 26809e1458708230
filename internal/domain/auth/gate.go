package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"filedrive/internal/pkg/jwt"
)

const (
	SessionCookieName = "session"

	contextUserIDKey = "user_id"
	contextEmailKey  = "email"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID string
	Email  string
}

// Gate resolves and transitions the per-request session state:
// Anonymous -> Authenticated(user) on LogIn, back to Anonymous on LogOut.
type Gate interface {
	Identify(c *gin.Context) (Identity, bool)
	LogIn(c *gin.Context, u *User) error
	LogOut(c *gin.Context)
}

// CookieGate keeps the session as a signed token in an HttpOnly cookie.
// API clients may send the same token as a Bearer header.
type CookieGate struct {
	tokens *jwt.Service
	secure bool
}

func NewCookieGate(tokens *jwt.Service, secure bool) *CookieGate {
	return &CookieGate{tokens: tokens, secure: secure}
}

func (g *CookieGate) Identify(c *gin.Context) (Identity, bool) {
	raw := bearerToken(c)
	if raw == "" {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil {
			return Identity{}, false
		}
		raw = cookie
	}

	claims, err := g.tokens.ValidateToken(raw)
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, true
}

func (g *CookieGate) LogIn(c *gin.Context, u *User) error {
	token, err := g.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(g.tokens.TTL().Seconds()), "/", "", g.secure, true)
	return nil
}

func (g *CookieGate) LogOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", g.secure, true)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// SetIdentity stores the resolved caller on the request context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(contextUserIDKey, id.UserID)
	c.Set(contextEmailKey, id.Email)
}

// CurrentUserID returns the caller set by SetIdentity, or "" for anonymous requests.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(contextUserIDKey)
}
