package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
)

// Config carries every runtime setting. Values come from the environment
// (optionally via a .env file loaded in main) with sane defaults; only
// ADMIN_PW has no default because the bootstrap admin password must be
// supplied externally.
type Config struct {
	ServerPort         string
	DBPath             string
	UploadDir          string
	PagesDir           string
	MaxFileSize        int64
	AdminPassword      string
	SessionSecret      []byte
	LoginRatePerMinute int

	Backup BackupConfig
}

// BackupConfig enables scheduled off-site archives when the S3 settings are
// present.
type BackupConfig struct {
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3Bucket    string
	S3Endpoint  string // optional, for MinIO-compatible stores
	Schedule    string // cron expression; empty disables the schedule
}

// Enabled reports whether backups are configured at all.
func (b BackupConfig) Enabled() bool {
	return b.S3Bucket != "" && b.S3AccessKey != "" && b.S3SecretKey != ""
}

const defaultMaxFileSize = 1 << 30 // 1 GiB, matching the original deployment

// Load reads configuration from the environment. The process exits when
// ADMIN_PW is missing, mirroring the original server's startup check.
func Load() *Config {
	cfg := &Config{
		ServerPort:         getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "users.db"),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		PagesDir:           getEnv("PAGES_DIR", "src"),
		MaxFileSize:        getEnvInt64("MAX_FILE_SIZE", defaultMaxFileSize),
		AdminPassword:      os.Getenv("ADMIN_PW"),
		LoginRatePerMinute: int(getEnvInt64("LOGIN_RATE_PER_MINUTE", 30)),
		Backup: BackupConfig{
			S3AccessKey: os.Getenv("BACKUP_S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("BACKUP_S3_SECRET_KEY"),
			S3Region:    getEnv("BACKUP_S3_REGION", "us-east-1"),
			S3Bucket:    os.Getenv("BACKUP_S3_BUCKET"),
			S3Endpoint:  os.Getenv("BACKUP_S3_ENDPOINT"),
			Schedule:    os.Getenv("BACKUP_SCHEDULE"),
		},
	}

	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PW is not set")
	}

	cfg.SessionSecret = sessionSecret()

	log.Printf("Config loaded - ServerPort: %s, DBPath: %s, UploadDir: %s", cfg.ServerPort, cfg.DBPath, cfg.UploadDir)
	return cfg
}

// sessionSecret returns SESSION_SECRET or, like the original server, a fresh
// random key per process (sessions then do not survive a restart).
func sessionSecret() []byte {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return []byte(s)
	}
	key := make([]byte, 64)
	if _, err := rand.Read(key); err != nil {
		log.Fatal("failed to generate session secret:", err)
	}
	return []byte(hex.EncodeToString(key))
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
