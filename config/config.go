package config

import (
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	GitHub   GitHubConfig   `yaml:"github"`
	Data     DataConfig     `yaml:"data"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite, mysql
	DSN  string `yaml:"dsn"`
}

type AuthConfig struct {
	Disabled       bool     `yaml:"disabled"`
	ClientID       string   `yaml:"client_id"`
	ClientSecret   string   `yaml:"client_secret"`
	RedirectURL    string   `yaml:"redirect_url"`
	SessionSecret  string   `yaml:"session_secret"`
	AllowedDomains []string `yaml:"allowed_domains"`
}

type GitHubConfig struct {
	Token string `yaml:"token"`
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

func loadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "./data/app.db",
		},
		Auth: AuthConfig{
			RedirectURL:    "http://localhost:8080/api/auth/callback",
			AllowedDomains: []string{"voiceflow.com"},
		},
		Data: DataConfig{
			Dir: "./data",
		},
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		yaml.Unmarshal(data, config)
	}

	// 环境变量优先级高于配置文件
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dbDSN := os.Getenv("DB_DSN"); dbDSN != "" {
		config.Database.DSN = dbDSN
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		config.Data.Dir = dataDir
	}

	// Google OAuth 环境变量
	if clientID := os.Getenv("GOOGLE_CLIENT_ID"); clientID != "" {
		config.Auth.ClientID = clientID
	}
	if clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET"); clientSecret != "" {
		config.Auth.ClientSecret = clientSecret
	}
	if redirectURL := os.Getenv("GOOGLE_REDIRECT_URL"); redirectURL != "" {
		config.Auth.RedirectURL = redirectURL
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		config.Auth.SessionSecret = secret
	}
	if os.Getenv("DISABLE_AUTH") == "true" {
		config.Auth.Disabled = true
	}
	if domains := os.Getenv("ALLOWED_EMAIL_DOMAINS"); domains != "" {
		config.Auth.AllowedDomains = parseDomains(domains)
	}

	// GitHub 发布环境变量
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	}
	if owner := os.Getenv("GITHUB_OWNER"); owner != "" {
		config.GitHub.Owner = owner
	}
	if repo := os.Getenv("GITHUB_REPO"); repo != "" {
		config.GitHub.Repo = repo
	}

	return config
}

// parseDomains 解析逗号分隔的域名列表，去除空白与空项
func parseDomains(raw string) []string {
	parts := strings.Split(raw, ",")
	domains := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			domains = append(domains, p)
		}
	}
	return domains
}
