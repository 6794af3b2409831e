package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// identityKey 存入 gin 上下文的身份键
const identityKey = "auth.identity"

// Middleware 会话门禁中间件。鉴权关闭时注入固定本地身份，
// 否则要求请求携带有效的会话 cookie。
func Middleware(authenticator *Authenticator, sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticator.Disabled() {
			c.Set(identityKey, LocalIdentity())
			c.Next()
			return
		}

		cookie, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		identity, err := sessions.Parse(cookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom 取出当前请求的已验证身份
func IdentityFrom(c *gin.Context) (*Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*Identity)
	return identity, ok
}
