package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO or any S3-compatible store.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GitHubConfig holds the repository that receives committed PDFs.
type GitHubConfig struct {
	Token      string
	Owner      string
	Repo       string
	Branch     string
	PathPrefix string
	// APIURL overrides the public API endpoint (GitHub Enterprise, tests).
	APIURL string
}

// Upload backends accepted by UploadConfig.Backend.
const (
	BackendGitHub = "github"
	BackendObject = "object"
)

// UploadConfig controls both upload topologies.
type UploadConfig struct {
	// Backend selects the remote publisher used by the API: "github" or "object".
	Backend string
	// Dir is where the local upload helper writes files.
	Dir string
	// BodyLimitMB caps the request body accepted by the HTTP server.
	BodyLimitMB int
	// PublicBaseURL, when set, prefixes every published file URL.
	PublicBaseURL string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	UploadPort string
	TimeZone   string
	Database   DatabaseConfig
	MinIO      MinIOConfig
	GitHub     GitHubConfig
	Upload     UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:    getEnv("APP_HOST", "localhost:8080"),
		Port:       getEnv("PORT", "8080"),
		UploadPort: getEnv("UPLOAD_PORT", "3001"),
		TimeZone:   getEnv("TZ_NAME", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "pdf-storage"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GitHub: GitHubConfig{
			Token:      getEnv("GITHUB_TOKEN", ""),
			Owner:      getEnv("GITHUB_OWNER", ""),
			Repo:       getEnv("GITHUB_REPO", ""),
			Branch:     getEnv("GITHUB_BRANCH", "main"),
			PathPrefix: getEnv("GITHUB_PATH_PREFIX", "pdfs"),
			APIURL:     getEnv("GITHUB_API_URL", ""),
		},
		Upload: UploadConfig{
			Backend:       getEnv("UPLOAD_BACKEND", BackendGitHub),
			Dir:           getEnv("UPLOAD_DIR", "pdfs"),
			BodyLimitMB:   getEnvInt("UPLOAD_BODY_LIMIT_MB", 50),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		},
	}
}

// Location resolves TimeZone, falling back to UTC when the name is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BodyLimitBytes converts the configured upload limit for fiber.Config.
func (u UploadConfig) BodyLimitBytes() int {
	if u.BodyLimitMB <= 0 {
		return 50 << 20
	}
	return u.BodyLimitMB << 20
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
