package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie 会话 cookie 名称
const SessionCookie = "pv_session"

// sessionTTL 会话有效期 30 天
const sessionTTL = 30 * 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session")

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager 签发和校验 JWT 会话令牌
type SessionManager struct {
	secret []byte
}

func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

func (m *SessionManager) Issue(identity *Identity) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Name:  identity.Name,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("签发会话令牌失败: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) Parse(tokenString string) (*Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	return &Identity{Name: claims.Name, Email: claims.Email}, nil
}

// SessionMaxAge cookie 的 Max-Age 秒数
func SessionMaxAge() int {
	return int(sessionTTL.Seconds())
}
