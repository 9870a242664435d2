package connection

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type FirebaseConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	ProjectID       string `yaml:"project_id"`
	StorageBucket   string `yaml:"storage_bucket"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	RefreshSecret string `yaml:"refresh_secret"`
}

type WhatsAppConfig struct {
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	CountryCode string `yaml:"country_code"`
}

type RecaptchaConfig struct {
	ProjectID string `yaml:"project_id"`
	SiteKey   string `yaml:"site_key"`
}

type Config struct {
	Port        string          `yaml:"port"`
	Env         string          `yaml:"env"`
	StoreDriver string          `yaml:"store_driver"` // firestore, mongo, memory
	BlobDriver  string          `yaml:"blob_driver"`  // firebase, minio, memory
	Firebase    FirebaseConfig  `yaml:"firebase"`
	Mongo       MongoConfig     `yaml:"mongo"`
	Minio       MinioConfig     `yaml:"minio"`
	RedisURL    string          `yaml:"redis_url"`
	JWT         JWTConfig       `yaml:"jwt"`
	WhatsApp    WhatsAppConfig  `yaml:"whatsapp"`
	Recaptcha   RecaptchaConfig `yaml:"recaptcha"`
	Timezone    string          `yaml:"timezone"`
	CronSecret  string          `yaml:"cron_secret"`
	CORSOrigins []string        `yaml:"cors_origins"`
	// Roles maps an email address to its role. Unlisted users are staff.
	Roles map[string]string `yaml:"roles"`
}

func defaultConfig() Config {
	return Config{
		Port:        "8080",
		Env:         "local",
		StoreDriver: "memory",
		BlobDriver:  "memory",
		Mongo:       MongoConfig{Database: "insynchub"},
		WhatsApp: WhatsAppConfig{
			URL:         "https://api.fonnte.com/send",
			CountryCode: "62",
		},
		Timezone: "Asia/Jakarta",
	}
}

// LoadConfig reads .env (if present), then the YAML file at path (if
// present), then environment overrides.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		path = p
	}
	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("open %s: %w", path, err)
		default:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		}
	}

	overrideFromEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Port, "PORT")
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.StoreDriver, "STORE_DRIVER")
	setString(&cfg.BlobDriver, "BLOB_DRIVER")

	setString(&cfg.Firebase.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&cfg.Firebase.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&cfg.Firebase.StorageBucket, "FIREBASE_STORAGE_BUCKET")

	setString(&cfg.Mongo.URI, "MONGO_URI")
	setString(&cfg.Mongo.Database, "MONGO_DB")

	setString(&cfg.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&cfg.Minio.Bucket, "MINIO_BUCKET")
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Minio.UseSSL = b
		}
	}

	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.JWT.Secret, "JWT_SECRET_KEY")
	setString(&cfg.JWT.RefreshSecret, "JWT_REFRESH_SECRET_KEY")

	setString(&cfg.WhatsApp.URL, "WHATSAPP_API_URL")
	setString(&cfg.WhatsApp.Token, "WHATSAPP_API_TOKEN")
	setString(&cfg.WhatsApp.CountryCode, "WHATSAPP_COUNTRY_CODE")

	setString(&cfg.Recaptcha.ProjectID, "RECAPTCHA_PROJECT_ID")
	setString(&cfg.Recaptcha.SiteKey, "RECAPTCHA_SITE_KEY")

	setString(&cfg.Timezone, "REMINDER_TIMEZONE")
	setString(&cfg.CronSecret, "CRON_SECRET")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "firestore", "mongo", "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	switch c.BlobDriver {
	case "firebase", "minio", "memory":
	default:
		return fmt.Errorf("unknown blob driver %q", c.BlobDriver)
	}
	if c.JWT.Secret == "" || c.JWT.RefreshSecret == "" {
		if c.Env != "local" {
			return errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY are required")
		}
		c.JWT.Secret = "local-access-secret"
		c.JWT.RefreshSecret = "local-refresh-secret"
	}
	if c.StoreDriver == "mongo" && c.Mongo.URI == "" {
		return errors.New("MONGO_URI is required for the mongo store driver")
	}
	if c.BlobDriver == "minio" && (c.Minio.Endpoint == "" || c.Minio.Bucket == "") {
		return errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio blob driver")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the time zone reminder days are computed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) UsesFirebase() bool {
	return c.StoreDriver == "firestore" || c.BlobDriver == "firebase"
}
