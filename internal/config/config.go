package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL     string
	Location        *time.Location
	HTTPAddr        string
	LogLevel        string
	Env             string // dev|prod
	SentryDSN       string
	BotToken        string  // пусто — алерты выключены
	AlertChatIDs    []int64 // куда слать уведомления о новых рисках
	AnalyzeInterval time.Duration
	Thresholds      Thresholds
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Europe/London")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	chatIDs, err := parseIDs(os.Getenv("ALERT_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ALERT_CHAT_IDS: %w", err)
	}

	interval, err := time.ParseDuration(getenv("ANALYZE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("ANALYZE_INTERVAL: %w", err)
	}

	cfg := &Config{
		DatabaseURL:     mustEnv("DATABASE_URL"),
		Location:        loc,
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		Env:             getenv("ENV", "dev"),
		SentryDSN:       os.Getenv("SENTRY_DSN"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		AlertChatIDs:    chatIDs,
		AnalyzeInterval: interval,
		Thresholds:      ThresholdsFromEnv(),
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
