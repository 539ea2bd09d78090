package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yu-yu0202/FileShareService/middleware"
	"github.com/Yu-yu0202/FileShareService/models"
	"github.com/Yu-yu0202/FileShareService/services"
)

type AuthHandler struct {
	users    *services.UserService
	sessions *middleware.SessionManager
}

func NewAuthHandler(users *services.UserService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// Login verifies credentials and sets the session cookie. The response to a
// bad username and a bad password is identical; the difference only reaches
// the server log.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid login request")
		return
	}

	user, err := h.users.Verify(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidCredential) {
			log.Printf("login rejected for %q: %v", req.Username, err)
			c.String(http.StatusUnauthorized, "invalid username or password")
			return
		}
		log.Printf("login failed for %q: %v", req.Username, err)
		c.String(http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		log.Printf("failed to issue session for %q: %v", user.Username, err)
		c.String(http.StatusInternalServerError, "login failed")
		return
	}
	c.SetCookie(middleware.SessionCookie, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)

	redirectTo := c.Query("redirect_to")
	if !strings.HasPrefix(redirectTo, "/") || strings.HasPrefix(redirectTo, "//") {
		redirectTo = "/dashboard"
	}
	c.JSON(http.StatusOK, gin.H{"message": "OK", "redirectTo": redirectTo})
}

// Register creates a regular user account. Admin-gated by the route table.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid registration request")
		return
	}

	if _, err := h.users.Create(req.Username, req.Password, models.RoleUser); err != nil {
		if errors.Is(err, services.ErrDuplicateUsername) {
			c.String(http.StatusConflict, "username already taken")
			return
		}
		log.Printf("failed to register %q: %v", req.Username, err)
		c.String(http.StatusInternalServerError, "registration failed")
		return
	}
	c.String(http.StatusOK, "user registered")
}

// Logout clears the session cookie and sends the browser back to the login
// page. It succeeds from the client's point of view no matter what.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

// UserInfo returns the identity backing the current session.
func (h *AuthHandler) UserInfo(c *gin.Context) {
	_, username, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}
