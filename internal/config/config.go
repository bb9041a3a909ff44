package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full process configuration, read once at startup from the
// environment.
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	QueueName   string
	WorkerCount int
	LockTTL     time.Duration

	CatalogVersion string

	WhatsApp WhatsAppConfig
	STT      STTConfig
	AI       AIConfig

	JWTSecret        string
	OperatorUsername string
	OperatorPassword string
}

// WhatsAppConfig holds the outbound delivery and media download settings.
type WhatsAppConfig struct {
	APIToken      string
	PhoneNumberID string
	BaseURL       string
	Timeout       time.Duration
}

// MessagesURL is the Graph API endpoint messages are posted to.
func (c WhatsAppConfig) MessagesURL() string {
	return c.BaseURL + "/" + c.PhoneNumberID + "/messages"
}

// IsEnabled returns true when delivery credentials are present.
func (c WhatsAppConfig) IsEnabled() bool {
	return c.APIToken != "" && c.PhoneNumberID != ""
}

// STTConfig points at the speech recognition server.
type STTConfig struct {
	URL     string
	Timeout time.Duration
}

// AIConfig holds the Gemini settings for the completion analysis.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// IsEnabled returns true when the analysis API is configured.
func (c AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full generateContent endpoint.
func (c AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

// Load reads configuration from the environment with local-dev defaults.
func Load() *Config {
	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "eldermarket"),
		RedisAddr: trimRedisScheme(getEnv("REDIS_URI", "localhost:6379")),
		HTTPPort:  getEnv("PORT", "8080"),

		QueueName:   getEnv("EVENT_QUEUE", "survey:events"),
		WorkerCount: getEnvInt("WORKER_COUNT", 4),
		LockTTL:     getEnvDuration("LOCK_TTL", 2*time.Minute),

		CatalogVersion: getEnv("CATALOG_VERSION", "elderly27"),

		WhatsApp: WhatsAppConfig{
			APIToken:      os.Getenv("WHATSAPP_API_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v20.0"),
			Timeout:       getEnvDuration("WHATSAPP_TIMEOUT", 10*time.Second),
		},
		STT: STTConfig{
			URL:     getEnv("STT_URL", "http://localhost:2700/transcribe"),
			Timeout: getEnvDuration("STT_TIMEOUT", 60*time.Second),
		},
		AI: AIConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
			Timeout: getEnvDuration("GEMINI_TIMEOUT", 30*time.Second),
		},

		JWTSecret:        getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		OperatorUsername: getEnv("OPERATOR_USERNAME", "admin"),
		OperatorPassword: getEnv("OPERATOR_PASSWORD", "password123"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func trimRedisScheme(addr string) string {
	if len(addr) > 8 && addr[:8] == "redis://" {
		return addr[8:]
	}
	return addr
}
