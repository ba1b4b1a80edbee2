package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	defaultInternalRecipient = "recommendations@btoolme.com"
	defaultOAuthRedirectURL  = "https://developers.google.com/oauthplayground"
	googleClientIDSuffix     = ".apps.googleusercontent.com"
)

// Recommendation defaults; a limit of 0 returns every match.
const (
	DefaultRecommendationLimit     = 5
	DefaultRecommendationCacheSize = 512
)

// Config holds application configuration.
type Config struct {
	Port                    string
	Env                     string
	CORSAllowOrigin         []string
	DatabaseURL             string
	GoogleClientID          string
	GoogleClientSecret      string
	GoogleRefreshToken      string
	GoogleRedirectURL       string
	EmailFrom               string
	EmailFromName           string
	EmailInternalTo         string
	SMTPHost                string
	SMTPPort                int
	RecommendationLimit     int
	RecommendationCacheSize int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL not set in production; serving the embedded catalog")
	}

	return Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     env,
		CORSAllowOrigin:         splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		DatabaseURL:             dbURL,
		GoogleClientID:          getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:      getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken:      getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleRedirectURL:       getEnv("GOOGLE_REDIRECT_URL", defaultOAuthRedirectURL),
		EmailFrom:               getEnv("EMAIL_FROM", ""),
		EmailFromName:           getEnv("EMAIL_FROM_NAME", "btoolme Recommendations"),
		EmailInternalTo:         getEnv("EMAIL_INTERNAL_TO", defaultInternalRecipient),
		SMTPHost:                getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:                getEnvInt("SMTP_PORT", 587),
		RecommendationLimit:     getEnvInt("RECOMMENDATION_LIMIT", DefaultRecommendationLimit),
		RecommendationCacheSize: getEnvInt("RECOMMENDATION_CACHE_SIZE", DefaultRecommendationCacheSize),
	}
}

// IsDevLike reports whether the environment tolerates missing credentials.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// EmailConfigured reports whether any Gmail credential was supplied.
func (c Config) EmailConfigured() bool {
	return c.GoogleClientID != "" || c.GoogleClientSecret != "" || c.GoogleRefreshToken != ""
}

// ValidateEmail checks the settings the Gmail sender needs.
func (c Config) ValidateEmail() error {
	validate := validator.New()
	var problems []string
	if !strings.Contains(c.GoogleClientID, googleClientIDSuffix) {
		problems = append(problems, "GOOGLE_CLIENT_ID: invalid Google client ID format")
	}
	if strings.TrimSpace(c.GoogleClientSecret) == "" {
		problems = append(problems, "GOOGLE_CLIENT_SECRET: client secret is required")
	}
	if strings.TrimSpace(c.GoogleRefreshToken) == "" {
		problems = append(problems, "GOOGLE_REFRESH_TOKEN: refresh token is required")
	}
	if err := validate.Var(c.EmailFrom, "required,email"); err != nil {
		problems = append(problems, "EMAIL_FROM: invalid email address")
	}
	if err := validate.Var(c.EmailInternalTo, "required,email"); err != nil {
		problems = append(problems, "EMAIL_INTERNAL_TO: invalid email address")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("SMTP_PORT: invalid port %d", c.SMTPPort))
	}
	if len(problems) > 0 {
		return errors.New("invalid email configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "test":
		return "test"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
