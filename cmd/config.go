package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"freight/internal/adapters/out/postgres"
	"freight/internal/core/application/ratelimit"
	"freight/internal/jobs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort       string
	RequestTimeout time.Duration

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	// DBName is the file path when DBDriver is sqlite.
	DBName    string
	DBSslMode string

	// RedisAddr empty keeps rate limits and the profile cache in process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// KafkaHost empty drops domain events.
	KafkaHost             string
	KafkaOrderEventsTopic string

	PricingConfigPath string

	LogLevel string
	LogFile  string

	QuoteExpirySchedule string

	RateLimits          map[ratelimit.Action]ratelimit.Policy
	FailClosedMutations bool
	AdminUserIDs        []string
	ProfileCacheTTL     time.Duration
}

// LoadConfig reads envFile into the environment when it exists and builds the
// config from the process environment.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds the config from lookup, applying defaults for unset keys.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	env := envReader{lookup: lookup}

	cfg := Config{
		HTTPPort:              env.str("HTTP_PORT", "8082"),
		RequestTimeout:        env.duration("REQUEST_TIMEOUT", 15*time.Second),
		DBDriver:              env.str("DB_DRIVER", postgres.DriverPostgres),
		DBHost:                env.str("DB_HOST", "localhost"),
		DBPort:                env.str("DB_PORT", "5432"),
		DBUser:                env.str("DB_USER", "freight"),
		DBPassword:            env.str("DB_PASSWORD", ""),
		DBName:                env.str("DB_NAME", "freight"),
		DBSslMode:             env.str("DB_SSLMODE", "disable"),
		RedisAddr:             env.str("REDIS_ADDR", ""),
		RedisPassword:         env.str("REDIS_PASSWORD", ""),
		RedisDB:               env.integer("REDIS_DB", 0),
		KafkaHost:             env.str("KAFKA_HOST", ""),
		KafkaOrderEventsTopic: env.str("KAFKA_ORDER_EVENTS_TOPIC", "freight.order-events"),
		PricingConfigPath:     env.str("PRICING_CONFIG_PATH", ""),
		LogLevel:              env.str("LOG_LEVEL", "info"),
		LogFile:               env.str("LOG_FILE", ""),
		QuoteExpirySchedule:   env.str("QUOTE_EXPIRY_SCHEDULE", jobs.DefaultQuoteExpirySchedule),
		FailClosedMutations:   env.boolean("RATE_LIMIT_FAIL_CLOSED_MUTATIONS", false),
		AdminUserIDs:          env.list("ADMIN_USER_IDS"),
		ProfileCacheTTL:       env.duration("PROFILE_CACHE_TTL", 5*time.Minute),
	}

	cfg.RateLimits = ratelimit.DefaultPolicies()
	for _, action := range ratelimit.Actions() {
		prefix := "RATE_LIMIT_" + strings.ToUpper(string(action))
		p := cfg.RateLimits[action]
		p.Limit = int64(env.integer(prefix+"_LIMIT", int(p.Limit)))
		p.Window = env.duration(prefix+"_WINDOW", p.Window)
		cfg.RateLimits[action] = p
	}
	if cfg.FailClosedMutations {
		for _, action := range ratelimit.HighValueActions() {
			p := cfg.RateLimits[action]
			p.FailClosed = true
			cfg.RateLimits[action] = p
		}
	}

	if len(env.problems) > 0 {
		return Config{}, errors.Join(env.problems...)
	}
	return cfg, nil
}

// DSN is the connection string of the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == postgres.DriverSQLite {
		return c.DBName
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envReader struct {
	lookup   func(string) (string, bool)
	problems []error
}

func (r *envReader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) str(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.problems = append(r.problems, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *envReader) boolean(key string, def bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.problems = append(r.problems, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.problems = append(r.problems, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r *envReader) list(key string) []string {
	v, ok := r.raw(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
