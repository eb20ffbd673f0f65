package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"require"`

	HTTPPort      string        `envconfig:"HTTP_PORT" default:"4242"`
	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"herbal_admin"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	MaxSessions   int           `envconfig:"MAX_SESSIONS" default:"1000"`

	// Fallback-Zugang, falls in den Einstellungen keiner hinterlegt ist
	AdminFallbackUser     string `envconfig:"ADMIN_FALLBACK_USER" default:"admin"`
	AdminFallbackPassword string `envconfig:"ADMIN_FALLBACK_PASSWORD" default:"herbs2024"`

	// Textgenerierung (Gemini); der Schlüssel aus den Einstellungen hat Vorrang
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	// Bildsuche (Unsplash)
	UnsplashBaseURL string `envconfig:"UNSPLASH_BASE_URL" default:"https://api.unsplash.com"`
	UnsplashAPIKey  string `envconfig:"UNSPLASH_API_KEY"`
	UnsplashPerPage int    `envconfig:"UNSPLASH_PER_PAGE" default:"12"`

	// Objektspeicher für Bilder und Sicherungen
	S3Key          string `envconfig:"S3_KEY"`
	S3Secret       string `envconfig:"S3_SECRET"`
	S3URL          string `envconfig:"S3_URL"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket       string `envconfig:"S3_BUCKET" default:"images"`
	S3PublicURL    string `envconfig:"S3_PUBLIC_URL"`
	S3UploadPrefix string `envconfig:"S3_UPLOAD_PREFIX" default:"uploads"`

	BackupSchedule string `envconfig:"BACKUP_SCHEDULE" default:"0 3 * * *"`
	BackupBucket   string `envconfig:"BACKUP_S3_BUCKET"`
	BackupPrefix   string `envconfig:"BACKUP_PREFIX" default:"backups/"`
	KeepBackups    int    `envconfig:"KEEP_BACKUPS" default:"7"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// StorageEnabled meldet, ob ein Objektspeicher konfiguriert ist.
func (c *Config) StorageEnabled() bool {
	return c.S3URL != "" && c.S3Key != "" && c.S3Secret != ""
}

// PublicObjectURL baut die öffentliche URL eines Objekts im Upload-Bucket.
func (c *Config) PublicObjectURL(key string) string {
	base := c.S3PublicURL
	if base == "" {
		base = strings.TrimRight(c.S3URL, "/") + "/" + c.S3Bucket
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// BackupTargetBucket liefert den Bucket für Sicherungen, standardmäßig den Upload-Bucket.
func (c *Config) BackupTargetBucket() string {
	if c.BackupBucket != "" {
		return c.BackupBucket
	}
	return c.S3Bucket
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
