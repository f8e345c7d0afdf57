package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

type Config struct {
	Port        string
	Env         string
	CORSOrigins []string

	DBDriver    string // postgres or mysql
	DatabaseURL string

	JWTSecret   string
	JWTTTL      time.Duration
	MetricsKey  string
	AdminEmails []string // accounts signing in with these emails become admins
	FirebaseCfg FirebaseConfig

	RedisAddr     string
	RedisPassword string
	RedisChannel  string
	KafkaBrokers  []string
	KafkaTopic    string

	UploadDir     string
	BackupDir     string
	BackupHour    int
	BackupKeep    time.Duration
	PublicBaseURL string
	GCSBucket     string
	MaxUploadSize int64

	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
	ServiceName  string

	PricingFile string
	Pricing     Pricing
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsJSON string
	CredentialsFile string
}

// ClientOptions picks inline JSON credentials, a credentials file, or
// nothing (application default credentials).
func (f FirebaseConfig) ClientOptions() []option.ClientOption {
	switch {
	case f.CredentialsJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(f.CredentialsJSON))}
	case f.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(f.CredentialsFile)}
	}
	return nil
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      getDuration("JWT_TTL", 24*time.Hour),
		MetricsKey:  os.Getenv("METRICS_API_KEY"),
		AdminEmails: splitList(strings.ToLower(getEnv("ADMIN_EMAILS", os.Getenv("SUPER_ADMIN_EMAIL")))),
		FirebaseCfg: FirebaseConfig{
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			CredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		},

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisChannel:  getEnv("REDIS_CHANNEL", "storefront:events"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "storefront-events"),

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		BackupDir:     getEnv("BACKUP_DIR", "./backup/uploads"),
		BackupHour:    getInt("BACKUP_HOUR", 2),
		BackupKeep:    getDuration("BACKUP_RETENTION", 4*24*time.Hour),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		GCSBucket:     os.Getenv("GCS_BUCKET"),
		MaxUploadSize: int64(getInt("MAX_UPLOAD_MB", 5)) << 20,

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "orjon"),

		PricingFile: os.Getenv("PRICING_FILE"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = buildDSN(cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "mysql" {
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	pricing, err := LoadPricing(cfg.PricingFile)
	if err != nil {
		return nil, err
	}
	cfg.Pricing = pricing
	return cfg, nil
}

func buildDSN(driver string) string {
	host := getEnv("DB_HOST", "localhost")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")

	if driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			user, password, host, getEnv("DB_PORT", "3306"), name)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, name, getEnv("DB_PORT", "5432"), getEnv("DB_SSLMODE", "disable"))
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
