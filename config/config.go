// path: config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs from the environment.
// Load fails fast when a required external setting is absent.
type Config struct {
	ListenAddr string
	DBURL      string
	DBName     string

	SendGridKey string
	FromEmail   string

	UploadDir      string
	AlertWorkers   int
	AllowedOrigins string
}

func Load() (Config, error) {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     getenv("LISTEN_ADDR", ":3005"),
		DBURL:          strings.TrimSpace(os.Getenv("DB_URL")),
		DBName:         getenv("DB_NAME", "parkwatch"),
		SendGridKey:    strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		FromEmail:      strings.TrimSpace(os.Getenv("FROM_EMAIL")),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		AlertWorkers:   getenvInt("ALERT_WORKERS", 4),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:3001"),
	}

	if cfg.DBURL == "" {
		return cfg, fmt.Errorf("missing DB_URL in environment")
	}
	if cfg.SendGridKey == "" {
		return cfg, fmt.Errorf("missing SENDGRID_API_KEY in environment")
	}
	if cfg.FromEmail == "" {
		return cfg, fmt.Errorf("missing FROM_EMAIL in environment")
	}
	if cfg.AlertWorkers < 1 {
		cfg.AlertWorkers = 1
	}
	return cfg, nil
}

// RedactedDBURL is safe for logs.
func (c Config) RedactedDBURL() string {
	return redactURI(c.DBURL)
}

func redactURI(raw string) string {
	if raw == "" || !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword("****", "****")
	return u.String()
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
