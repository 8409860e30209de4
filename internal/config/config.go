package config

import (
	"strings" // String manipulation
	"time"    // Token lifetime

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Environment lookup with defaults
)

// Config holds the application configuration
type Config struct {
	AppPort     string        // Application port
	MetricsPort string        // Port for /metrics and /healthz
	DBUser      string        // Database user
	DBPassword  string        // Database password
	DBHost      string        // Database host
	DBPort      string        // Database port
	DBName      string        // Database name
	JWTSecret   string        // JWT secret key
	TokenTTL    time.Duration // Session token lifetime
	RedisAddr   string        // Redis server address
	RedisPass   string        // Redis password
	RedisDB     int           // Redis database number
	IsProd      bool          // Is production environment
	LogLevel    string        // logrus level name

	AdminEmails   []string // Principals granted the admin role
	AdminEmail    string   // Administrator account seeded by the migrate command
	AdminPassword string   // Password for the seeded administrator, seeding is skipped when empty

	StartingCoins  float64 // Balance granted on registration
	CreditWinnings bool    // Credit potential_win to the bettor when a bet is resolved as won

	KafkaBrokers    string // Comma separated broker list, events are disabled when empty
	TopicBetPlaced  string // Topic for placed bets
	TopicBetSettled string // Topic for resolved bets
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// Brokers splits KafkaBrokers into a list, ignoring blanks
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("METRICS_PORT", "9095")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "tipster")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IS_PROD", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_EMAILS", "admin@codenxt.online")
	v.SetDefault("ADMIN_EMAIL", "admin@codenxt.online")
	v.SetDefault("STARTING_COINS", 500)
	v.SetDefault("SETTLEMENT_CREDIT_WINNINGS", true)
	v.SetDefault("KAFKA_TOPIC_BET_PLACED", "tipster.bet_placed")
	v.SetDefault("KAFKA_TOPIC_BET_SETTLED", "tipster.bet_settled")

	var admins []string
	for _, e := range strings.Split(v.GetString("ADMIN_EMAILS"), ",") {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins = append(admins, e)
		}
	}

	return &Config{
		AppPort:         v.GetString("APP_PORT"),     // Application port
		MetricsPort:     v.GetString("METRICS_PORT"), // Metrics port
		DBUser:          v.GetString("DB_USER"),      // Database user
		DBPassword:      v.GetString("DB_PASSWORD"),  // Database password
		DBHost:          v.GetString("DB_HOST"),      // Database host
		DBPort:          v.GetString("DB_PORT"),      // Database port
		DBName:          v.GetString("DB_NAME"),      // Database name
		JWTSecret:       v.GetString("JWT_SECRET"),   // JWT secret key
		TokenTTL:        v.GetDuration("TOKEN_TTL"),  // Token lifetime
		RedisAddr:       v.GetString("REDIS_ADDR"),   // Redis server address
		RedisPass:       v.GetString("REDIS_PASS"),   // Redis password
		RedisDB:         v.GetInt("REDIS_DB"),        // Redis database number
		IsProd:          v.GetBool("IS_PROD"),        // Is production environment
		LogLevel:        v.GetString("LOG_LEVEL"),
		AdminEmails:     admins,
		AdminEmail:      strings.ToLower(v.GetString("ADMIN_EMAIL")),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		StartingCoins:   v.GetFloat64("STARTING_COINS"),
		CreditWinnings:  v.GetBool("SETTLEMENT_CREDIT_WINNINGS"),
		KafkaBrokers:    v.GetString("KAFKA_BROKERS"),
		TopicBetPlaced:  v.GetString("KAFKA_TOPIC_BET_PLACED"),
		TopicBetSettled: v.GetString("KAFKA_TOPIC_BET_SETTLED"),
	}
}
