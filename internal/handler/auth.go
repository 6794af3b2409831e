package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/promptvault/backend/internal/auth"
)

const stateCookie = "pv_oauth_state"

// AuthHandler 处理 Google 登录流程与会话查询
type AuthHandler struct {
	authenticator *auth.Authenticator
	sessions      *auth.SessionManager
}

func NewAuthHandler(authenticator *auth.Authenticator, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, sessions: sessions}
}

// Login 重定向到 Google 授权页，state 写入短期 cookie 防 CSRF
func (h *AuthHandler) Login(c *gin.Context) {
	if h.authenticator.Disabled() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	state := newState()
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, h.authenticator.AuthURL(state))
}

// Callback 兑换授权码、校验域名并签发会话 cookie
func (h *AuthHandler) Callback(c *gin.Context) {
	if h.authenticator.Disabled() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	expectedState, err := c.Cookie(stateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	identity, err := h.authenticator.Exchange(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDomainNotAllowed):
			c.JSON(http.StatusForbidden, gin.H{"error": "email domain not allowed"})
		default:
			klog.Errorf("登录回调处理失败: error=%v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		}
		return
	}

	token, err := h.sessions.Issue(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.SetCookie(auth.SessionCookie, token, auth.SessionMaxAge(), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Session 返回当前登录身份
func (h *AuthHandler) Session(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity})
}

func newState() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
