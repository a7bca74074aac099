package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Email     EmailConfig
	Policy    PolicyConfig
	Sweep     SweepConfig
	Hierarchy HierarchyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds verification settings for tokens minted by the external
// identity provider. The core never issues tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds attachment storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds notification email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	OrgDomain   string `mapstructure:"org_domain"`
}

// PolicyConfig holds the deadline rules. The working-day offsets are
// deployment configuration, not constants in the date arithmetic.
type PolicyConfig struct {
	AccomplishmentDays     int  `mapstructure:"accomplishment_days"`
	LiquidationDays        int  `mapstructure:"liquidation_days"`
	RearmOnAppealRejection bool `mapstructure:"rearm_on_appeal_rejection"`
}

// SweepConfig holds the missed-deadline sweep schedule.
type SweepConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// HierarchyConfig holds the fixed escalation map as "child:parent" pairs.
type HierarchyConfig struct {
	Pairs []string `mapstructure:"pairs"`
}

// ReviewerMap parses the pairs into a child -> reviewer map. Malformed
// entries are skipped.
func (h *HierarchyConfig) ReviewerMap() map[string]string {
	m := make(map[string]string, len(h.Pairs))
	for _, pair := range h.Pairs {
		child, parent, ok := strings.Cut(pair, ":")
		child, parent = strings.TrimSpace(child), strings.TrimSpace(parent)
		if !ok || child == "" || parent == "" {
			continue
		}
		m[child] = parent
	}
	return m
}

// Load reads configuration from environment variables with the ORGCOMPLY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ORGCOMPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "orgcomply")
	v.SetDefault("db.password", "orgcomply_secret")
	v.SetDefault("db.name", "orgcomply_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "orgcomply-identity")

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-1")
	v.SetDefault("s3.bucket", "orgcomply-attachments")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-southeast-1")
	v.SetDefault("email.from_address", "noreply@orgcomply.local")
	v.SetDefault("email.from_name", "OrgComply")
	v.SetDefault("email.org_domain", "orgcomply.local")

	// Deadline policy defaults: accomplishment due 3 working days after the
	// event ends, liquidation due 5.
	v.SetDefault("policy.accomplishment_days", 3)
	v.SetDefault("policy.liquidation_days", 5)
	v.SetDefault("policy.rearm_on_appeal_rejection", true)

	// Sweep defaults: every day shortly after midnight.
	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.schedule", "15 0 * * *")

	// Default escalation map: local student governments report up to the
	// university student government, which reports up to student affairs.
	v.SetDefault("hierarchy.pairs", "LSG-Engineering:USG,LSG-Business:USG,LSG-Education:USG,LSG-Sciences:USG,USG:OSAS")

	envBindings := map[string]string{
		"server.port":                      "ORGCOMPLY_SERVER_PORT",
		"server.read_timeout":              "ORGCOMPLY_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "ORGCOMPLY_SERVER_WRITE_TIMEOUT",
		"server.environment":               "ORGCOMPLY_SERVER_ENVIRONMENT",
		"db.host":                          "ORGCOMPLY_DB_HOST",
		"db.port":                          "ORGCOMPLY_DB_PORT",
		"db.user":                          "ORGCOMPLY_DB_USER",
		"db.password":                      "ORGCOMPLY_DB_PASSWORD",
		"db.name":                          "ORGCOMPLY_DB_NAME",
		"db.sslmode":                       "ORGCOMPLY_DB_SSLMODE",
		"db.max_open":                      "ORGCOMPLY_DB_MAX_OPEN",
		"db.max_idle":                      "ORGCOMPLY_DB_MAX_IDLE",
		"jwt.secret":                       "ORGCOMPLY_JWT_SECRET",
		"jwt.issuer":                       "ORGCOMPLY_JWT_ISSUER",
		"s3.region":                        "ORGCOMPLY_S3_REGION",
		"s3.bucket":                        "ORGCOMPLY_S3_BUCKET",
		"s3.endpoint":                      "ORGCOMPLY_S3_ENDPOINT",
		"s3.access_key":                    "ORGCOMPLY_S3_ACCESS_KEY",
		"s3.secret_key":                    "ORGCOMPLY_S3_SECRET_KEY",
		"s3.max_file_size_mb":              "ORGCOMPLY_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                "ORGCOMPLY_S3_PRESIGN_EXPIRY",
		"log.level":                        "ORGCOMPLY_LOG_LEVEL",
		"log.format":                       "ORGCOMPLY_LOG_FORMAT",
		"cors.allowed_origins":             "ORGCOMPLY_CORS_ALLOWED_ORIGINS",
		"email.provider":                   "ORGCOMPLY_EMAIL_PROVIDER",
		"email.region":                     "ORGCOMPLY_EMAIL_REGION",
		"email.from_address":               "ORGCOMPLY_EMAIL_FROM_ADDRESS",
		"email.from_name":                  "ORGCOMPLY_EMAIL_FROM_NAME",
		"email.org_domain":                 "ORGCOMPLY_EMAIL_ORG_DOMAIN",
		"policy.accomplishment_days":       "ORGCOMPLY_POLICY_ACCOMPLISHMENT_DAYS",
		"policy.liquidation_days":          "ORGCOMPLY_POLICY_LIQUIDATION_DAYS",
		"policy.rearm_on_appeal_rejection": "ORGCOMPLY_POLICY_REARM_ON_APPEAL_REJECTION",
		"sweep.enabled":                    "ORGCOMPLY_SWEEP_ENABLED",
		"sweep.schedule":                   "ORGCOMPLY_SWEEP_SCHEDULE",
		"hierarchy.pairs":                  "ORGCOMPLY_HIERARCHY_PAIRS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if ORGCOMPLY_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ORGCOMPLY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		OrgDomain:   v.GetString("email.org_domain"),
	}
	cfg.Policy = PolicyConfig{
		AccomplishmentDays:     v.GetInt("policy.accomplishment_days"),
		LiquidationDays:        v.GetInt("policy.liquidation_days"),
		RearmOnAppealRejection: v.GetBool("policy.rearm_on_appeal_rejection"),
	}
	cfg.Sweep = SweepConfig{
		Enabled:  v.GetBool("sweep.enabled"),
		Schedule: v.GetString("sweep.schedule"),
	}
	cfg.Hierarchy = HierarchyConfig{
		Pairs: splitAndTrim(v.GetString("hierarchy.pairs")),
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
