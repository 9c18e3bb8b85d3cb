package utils

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DocumentStorePostgres = "postgres"
	DocumentStoreMongo    = "mongo"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Session  SessionConfig
	Mail     MailConfig
	Map      MapConfig
}

type AppConfig struct {
	Name          string
	Port          string
	Debug         bool
	LogPath       string
	BaseURL       string
	DocumentStore string
	AllowOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr            string
	Password        string
	SubmitLimit     int
	SubmitWindow    time.Duration
	RoleEventPrefix string
}

type StorageConfig struct {
	Root          string
	SigningSecret string
	URLTTL        time.Duration
	MaxImageBytes int64
}

type SessionConfig struct {
	ExpiryHours     int
	CleanupInterval time.Duration
}

type MailConfig struct {
	ResendAPIKey string
	From         string
	SupportInbox string
}

type MapConfig struct {
	TileURL   string
	CenterLat float64
	CenterLng float64
	Zoom      int
}

// LoadConfig reads .env from the working directory, if present, then the environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:          v.GetString("APP_NAME"),
			Port:          v.GetString("PORT"),
			Debug:         v.GetBool("DEBUG"),
			LogPath:       v.GetString("LOG_PATH"),
			BaseURL:       strings.TrimRight(v.GetString("BASE_URL"), "/"),
			DocumentStore: strings.ToLower(v.GetString("DOCUMENT_STORE")),
			AllowOrigins:  splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DB"),
		},
		Redis: RedisConfig{
			Addr:            v.GetString("REDIS_ADDR"),
			Password:        v.GetString("REDIS_PASSWORD"),
			SubmitLimit:     v.GetInt("REPORT_SUBMIT_LIMIT"),
			SubmitWindow:    v.GetDuration("REPORT_SUBMIT_WINDOW"),
			RoleEventPrefix: v.GetString("REDIS_ROLE_CHANNEL_PREFIX"),
		},
		Storage: StorageConfig{
			Root:          v.GetString("STORAGE_ROOT"),
			SigningSecret: v.GetString("STORAGE_SIGNING_SECRET"),
			URLTTL:        v.GetDuration("STORAGE_URL_TTL"),
			MaxImageBytes: v.GetInt64("MAX_IMAGE_BYTES"),
		},
		Session: SessionConfig{
			ExpiryHours:     v.GetInt("SESSION_EXPIRY_HOURS"),
			CleanupInterval: v.GetDuration("SESSION_CLEANUP_INTERVAL"),
		},
		Mail: MailConfig{
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
			From:         v.GetString("MAIL_FROM"),
			SupportInbox: v.GetString("SUPPORT_INBOX"),
		},
		Map: MapConfig{
			TileURL:   v.GetString("MAP_TILE_URL"),
			CenterLat: v.GetFloat64("MAP_CENTER_LAT"),
			CenterLng: v.GetFloat64("MAP_CENTER_LNG"),
			Zoom:      v.GetInt("MAP_ZOOM"),
		},
	}

	if config.App.DocumentStore != DocumentStoreMongo {
		config.App.DocumentStore = DocumentStorePostgres
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "billboard-report")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("DOCUMENT_STORE", DocumentStorePostgres)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("MONGO_DB", "billboard")
	v.SetDefault("REPORT_SUBMIT_LIMIT", 20)
	v.SetDefault("REPORT_SUBMIT_WINDOW", 24*time.Hour)
	v.SetDefault("REDIS_ROLE_CHANNEL_PREFIX", "billboard:role")
	v.SetDefault("STORAGE_ROOT", "data/")
	v.SetDefault("STORAGE_URL_TTL", time.Hour)
	v.SetDefault("MAX_IMAGE_BYTES", 10*1024*1024)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("SESSION_CLEANUP_INTERVAL", time.Hour)
	v.SetDefault("MAIL_FROM", "Billboard Reports <noreply@localhost>")
	v.SetDefault("MAP_TILE_URL", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("MAP_CENTER_LAT", 40.7128)
	v.SetDefault("MAP_CENTER_LNG", -74.0060)
	v.SetDefault("MAP_ZOOM", 4)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
