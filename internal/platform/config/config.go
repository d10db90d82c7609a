package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DeliveryBroadcastAll  = "broadcast_all"
	DeliveryRecipientOnly = "recipient_only"
)

type Config struct {
	Port                int
	DatabaseURL         string
	DBHost              string
	DBPort              int
	DBUser              string
	DBPassword          string
	DBName              string
	DBSSLMode           string
	JWTSecret           string
	Environment         string
	LogLevel            string
	RunMigrations       bool
	RunSeed             bool
	SeedManagerEmail    string
	SeedManagerPassword string
	SeedManagerName     string
	SeedDepartment      string
	MaxBodyBytes        int64
	RateLimitPerMinute  int
	CORSAllowedOrigins  []string
	ChatDeliveryPolicy  string
	MetricsEnabled      bool
}

// Load reads configuration from the environment. A .env file in the working
// directory, when present, is loaded first and never overrides variables that
// are already set.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		Port:                v.GetInt("PORT"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		DBHost:              v.GetString("DB_HOST"),
		DBPort:              v.GetInt("DB_PORT"),
		DBUser:              v.GetString("DB_USER"),
		DBPassword:          v.GetString("DB_PASSWORD"),
		DBName:              v.GetString("DB_NAME"),
		DBSSLMode:           v.GetString("DB_SSLMODE"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		Environment:         v.GetString("APP_ENV"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		RunMigrations:       v.GetBool("RUN_MIGRATIONS"),
		RunSeed:             v.GetBool("RUN_SEED"),
		SeedManagerEmail:    v.GetString("SEED_MANAGER_EMAIL"),
		SeedManagerPassword: v.GetString("SEED_MANAGER_PASSWORD"),
		SeedManagerName:     v.GetString("SEED_MANAGER_NAME"),
		SeedDepartment:      v.GetString("SEED_DEPARTMENT"),
		MaxBodyBytes:        v.GetInt64("MAX_BODY_BYTES"),
		RateLimitPerMinute:  v.GetInt("RATE_LIMIT_PER_MINUTE"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ChatDeliveryPolicy:  strings.ToLower(strings.TrimSpace(v.GetString("CHAT_DELIVERY_POLICY"))),
		MetricsEnabled:      v.GetBool("METRICS_ENABLED"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 5000)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "workdesk")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("RUN_SEED", false)
	v.SetDefault("SEED_MANAGER_NAME", "Admin")
	v.SetDefault("SEED_DEPARTMENT", "Management")
	v.SetDefault("MAX_BODY_BYTES", 1048576)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CHAT_DELIVERY_POLICY", DeliveryBroadcastAll)
	v.SetDefault("METRICS_ENABLED", true)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Addr is the listen address derived from PORT.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ConnectionString prefers DATABASE_URL and otherwise builds a postgres URL
// from the individual DB_* parameters.
func (c Config) ConnectionString() string {
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" && strings.TrimSpace(c.DBHost) == "" {
		return fmt.Errorf("DATABASE_URL or DB_HOST is required")
	}
	switch c.ChatDeliveryPolicy {
	case DeliveryBroadcastAll, DeliveryRecipientOnly:
	default:
		return fmt.Errorf("CHAT_DELIVERY_POLICY must be %q or %q", DeliveryBroadcastAll, DeliveryRecipientOnly)
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RunSeed && (c.SeedManagerEmail == "" || c.SeedManagerPassword == "") {
		return fmt.Errorf("SEED_MANAGER_EMAIL and SEED_MANAGER_PASSWORD are required when RUN_SEED is true")
	}
	return nil
}
