// Package config centralizes how the service reads environment variables and
// exposes them as strongly typed Go values.
package config

import (
	"crypto/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the API and the worker.
type Config struct {
	Address       string
	PublicBaseURL string
	AllowedOrigin string
	DatabaseURL   string

	MaxEvidenceSize int64
	SigningSecret   []byte
	SignedURLTTL    time.Duration

	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Region       string
	S3UseSSL       bool
	EvidenceBucket string

	EmailHost string
	EmailPort string
	EmailUser string
	EmailPass string

	WhatsAppAPIURL  string
	WhatsAppToken   string
	WhatsAppPhoneID string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DispatchWorkers int

	// Estados is the currently configured status enumeration. The set has
	// grown over the system's life, so it is configuration, not code.
	Estados []string

	// StandbyAuto forces estado to "standby" once the contact-attempt
	// counter reaches StandbyUmbral.
	StandbyAuto   bool
	StandbyUmbral int

	// TablasFile optionally points at a JSON file overriding the compiled-in
	// viáticos / form-link / contact tables.
	TablasFile string
}

const (
	defaultAddress       = ":8080"
	defaultBaseURL       = "http://localhost:8080"
	defaultEvidenceSize  = 5 << 20 // 5 MiB
	defaultSignedTTL     = 24 * time.Hour
	defaultBucket        = "evidencias-visitas"
	defaultWhatsAppAPI   = "https://graph.facebook.com/v17.0"
	defaultWorkerCount   = 4
	defaultStandbyUmbral = 3
	defaultEstados       = "pendiente,en curso,programada,standby,terminada," +
		"cancelada por evaluado,cancelada por VerifiK,cancelada por Atlas," +
		"subida al Drive,reprogramada"
)

// Load reads configuration from the environment, falling back to defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{
		Address:         readEnv("VISITAS_ADDRESS", defaultAddress),
		PublicBaseURL:   strings.TrimRight(readEnv("VISITAS_BASE_URL", defaultBaseURL), "/"),
		AllowedOrigin:   readEnv("VISITAS_ALLOWED_ORIGIN", "*"),
		DatabaseURL:     readEnv("DATABASE_URL", "postgres://localhost:5432/visitas"),
		MaxEvidenceSize: parseInt64("VISITAS_MAX_EVIDENCIA_BYTES", defaultEvidenceSize),
		SigningSecret:   parseSecret("VISITAS_SIGNING_SECRET"),
		SignedURLTTL:    parseDuration("VISITAS_SIGNED_TTL", defaultSignedTTL),
		S3Endpoint:      readEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:     readEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     readEnv("S3_SECRET_KEY", ""),
		S3Region:        readEnv("S3_REGION", "us-east-1"),
		S3UseSSL:        parseBool("S3_USE_SSL", false),
		EvidenceBucket:  readEnv("S3_BUCKET_EVIDENCIAS", defaultBucket),
		EmailHost:       readEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort:       readEnv("EMAIL_PORT", "587"),
		EmailUser:       readEnv("EMAIL_USER", ""),
		EmailPass:       readEnv("EMAIL_PASS", ""),
		WhatsAppAPIURL:  readEnv("WHATSAPP_API_URL", defaultWhatsAppAPI),
		WhatsAppToken:   readEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppPhoneID: readEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		RedisAddr:       readEnv("REDIS_ADDR", ""),
		RedisPassword:   readEnv("REDIS_PASSWORD", ""),
		RedisDB:         parseInt("REDIS_DB", 0),
		DispatchWorkers: parseInt("VISITAS_WORKERS", defaultWorkerCount),
		Estados:         parseList("VISITAS_ESTADOS", defaultEstados),
		StandbyAuto:     parseBool("VISITAS_STANDBY_AUTO", true),
		StandbyUmbral:   parseInt("VISITAS_STANDBY_UMBRAL", defaultStandbyUmbral),
		TablasFile:      readEnv("VISITAS_TABLAS_FILE", ""),
	}
	if cfg.SigningSecret == nil {
		cfg.SigningSecret = randomSecret()
	}
	if cfg.DispatchWorkers <= 0 {
		cfg.DispatchWorkers = defaultWorkerCount
	}
	if cfg.MaxEvidenceSize <= 0 {
		cfg.MaxEvidenceSize = defaultEvidenceSize
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedTTL
	}
	if cfg.StandbyUmbral <= 0 {
		cfg.StandbyUmbral = defaultStandbyUmbral
	}
	return cfg, nil
}

func readEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseList(key, def string) []string {
	val := readEnv(key, def)
	out := strings.Split(val, ",")
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseSecret(key string) []byte {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return []byte(v)
	}
	return nil
}

func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return []byte("visitas-dev-secret")
	}
	return buf
}
