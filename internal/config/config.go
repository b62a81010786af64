// Package config loads server and tool settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tarmuz-dev/tarmuz/internal/assets"
)

type Config struct {
	Port        string
	GinMode     string
	DatabaseURL string
	JWTSecret   string
	ClientURL   string
	Origins     []string
	UploadDir   string
	LogLevel    string
	LogFormat   string

	Assets AssetsConfig
	Email  EmailConfig
}

type AssetsConfig struct {
	Backend    string
	BaseFolder string
	Cloudinary assets.CloudinaryOptions
	S3         assets.S3Options
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// To is the fallback recipient when settings name none.
	To string
}

// Configured reports whether outbound email credentials are present.
func (e EmailConfig) Configured() bool {
	return e.User != "" && e.Password != ""
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("asset_backend", assets.BackendCloudinary)
	v.SetDefault("cloudinary_folder", assets.DefaultBaseFolder)
	v.SetDefault("email_host", "smtp.gmail.com")
	v.SetDefault("email_port", 587)
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	dsn := v.GetString("database_url")
	if dsn == "" {
		dsn = "tarmuz.db"
	}

	from := v.GetString("email_from")
	if from == "" {
		from = v.GetString("email_user")
	}

	return &Config{
		Port:        v.GetString("port"),
		GinMode:     v.GetString("gin_mode"),
		DatabaseURL: dsn,
		JWTSecret:   v.GetString("jwt_secret"),
		ClientURL:   v.GetString("client_url"),
		Origins:     splitList(v.GetString("allowed_origins")),
		UploadDir:   v.GetString("upload_dir"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		Assets: AssetsConfig{
			Backend:    strings.ToLower(v.GetString("asset_backend")),
			BaseFolder: v.GetString("cloudinary_folder"),
			Cloudinary: assets.CloudinaryOptions{
				URL:       v.GetString("cloudinary_url"),
				CloudName: v.GetString("cloudinary_cloud_name"),
				APIKey:    v.GetString("cloudinary_api_key"),
				APISecret: v.GetString("cloudinary_api_secret"),
			},
			S3: assets.S3Options{
				Bucket:          v.GetString("s3_bucket"),
				Region:          v.GetString("s3_region"),
				Prefix:          v.GetString("s3_prefix"),
				Endpoint:        v.GetString("s3_endpoint"),
				PublicBaseURL:   v.GetString("s3_public_base_url"),
				AccessKeyID:     v.GetString("s3_access_key_id"),
				SecretAccessKey: v.GetString("s3_secret_access_key"),
			},
		},
		Email: EmailConfig{
			Host:     v.GetString("email_host"),
			Port:     v.GetInt("email_port"),
			User:     v.GetString("email_user"),
			Password: v.GetString("email_pass"),
			From:     from,
			To:       v.GetString("email_to"),
		},
	}
}

// Validate checks the settings the HTTP server cannot start without.
func (c *Config) Validate() error {
	var missing []string

	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
