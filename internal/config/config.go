package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessSecret  string
	RefreshSecret string

	EmailDomain string // required suffix for institutional addresses

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from the environment. main calls godotenv.Load
// first so a local .env works in development.
func Load() *Config {
	return &Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		MySQLDSN: getenv("MYSQL_DSN",
			"root:root@tcp(127.0.0.1:3306)/campusanon?charset=utf8mb4&parseTime=True"),

		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		AccessSecret:  getenv("JWT_ACCESS_SECRET", "dev-access-secret"),
		RefreshSecret: getenv("JWT_REFRESH_SECRET", "dev-refresh-secret"),

		EmailDomain: getenv("COLLEGE_EMAIL_DOMAIN", "@aitpune.edu.in"),

		SMTPHost:     getenv("SMTP_HOST", "localhost"),
		SMTPPort:     getint("SMTP_PORT", 587),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", "NoReply <no-reply@example.com>"),

		KafkaBrokers: strings.Split(getenv("KAFKA_BROKERS", "127.0.0.1:9092"), ","),
		KafkaTopic:   getenv("KAFKA_TOPIC", "campusanon.moderation"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
