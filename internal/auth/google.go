package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/promptvault/backend/config"
)

const googleIssuer = "https://accounts.google.com"

var (
	// ErrDomainNotAllowed 邮箱域名不在允许列表内
	ErrDomainNotAllowed = errors.New("email domain not allowed")
	// ErrNoIDToken 授权码兑换结果中缺少 id_token
	ErrNoIDToken = errors.New("no id_token in token response")
)

// Identity 经过验证的用户身份
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Authenticator 基于 Google OIDC 的登录门禁。负责生成授权地址、
// 兑换授权码并校验 id_token，再按邮箱域名做准入检查。
type Authenticator struct {
	cfg      config.AuthConfig
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func NewAuthenticator(ctx context.Context, cfg config.AuthConfig) (*Authenticator, error) {
	a := &Authenticator{cfg: cfg}
	if cfg.Disabled {
		return a, nil
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("初始化 OIDC provider 失败: %w", err)
	}

	a.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	a.verifier = provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	return a, nil
}

func (a *Authenticator) Disabled() bool {
	return a.cfg.Disabled
}

// AuthURL 生成 Google 授权页地址
func (a *Authenticator) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange 用授权码兑换令牌并验证 id_token，返回校验后的身份。
// 邮箱域名不在允许列表内时返回 ErrDomainNotAllowed。
func (a *Authenticator) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("兑换授权码失败: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("校验 id_token 失败: %w", err)
	}

	var claims struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("解析 id_token claims 失败: %w", err)
	}

	if !a.EmailAllowed(claims.Email) {
		return nil, ErrDomainNotAllowed
	}

	return &Identity{Name: claims.Name, Email: claims.Email}, nil
}

// EmailAllowed 校验邮箱是否属于允许的域名
func (a *Authenticator) EmailAllowed(email string) bool {
	if email == "" {
		return false
	}
	for _, domain := range a.cfg.AllowedDomains {
		if strings.HasSuffix(email, "@"+domain) {
			return true
		}
	}
	return false
}

// LocalIdentity 关闭鉴权时注入的固定本地身份
func LocalIdentity() *Identity {
	return &Identity{Name: "No Auth User", Email: "no-auth@voiceflow.com"}
}
