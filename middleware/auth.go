package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Yu-yu0202/FileShareService/models"
	"github.com/Yu-yu0202/FileShareService/policy"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

// Context keys the gate middleware populates for handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// SessionClaims is the signed payload of a login session.
type SessionClaims struct {
	UserID   uint        `json:"uid"`
	Username string      `json:"uname"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates session tokens. Key material is
// injected at construction; there is no package-level secret.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: secret, ttl: ttl}
}

// TTL returns the session lifetime, used for the cookie max-age.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Issue signs a session token for an authenticated user.
func (m *SessionManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a session token and extracts its claims.
func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// identity resolves the session cookie on a request, if any.
func (m *SessionManager) identity(c *gin.Context) (*SessionClaims, bool) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie == "" {
		return nil, false
	}
	claims, err := m.Parse(cookie)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Require gates a route on the policy decision for op. On Allow the caller's
// identity is placed in the gin context under CtxUserID/CtxUsername/CtxRole.
func (m *SessionManager) Require(op policy.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, loggedIn := m.identity(c)

		var role models.Role
		if loggedIn {
			role = claims.Role
		}

		switch policy.Decide(op, loggedIn, role) {
		case policy.Allow:
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, claims.Role)
			c.Next()
		case policy.RedirectToLogin:
			target := "/login?redirect_to=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
		case policy.LoginRequired:
			c.String(http.StatusUnauthorized, "login required")
			c.Abort()
		case policy.Forbidden:
			c.String(http.StatusForbidden, "admin access required")
			c.Abort()
		}
	}
}

// CurrentUser reads the identity set by Require. ok is false when the route
// was not gated, which is a programming error in the route table.
func CurrentUser(c *gin.Context) (userID uint, username string, role models.Role, ok bool) {
	id, okID := c.Get(CtxUserID)
	name, okName := c.Get(CtxUsername)
	r, okRole := c.Get(CtxRole)
	if !okID || !okName || !okRole {
		return 0, "", "", false
	}
	return id.(uint), name.(string), r.(models.Role), true
}
