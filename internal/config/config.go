package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Admin struct {
		NotificationEmail  string `yaml:"notification_email"`
		FirstAdminEmail    string `yaml:"first_admin_email"`
		FirstAdminPassword string `yaml:"first_admin_password"`
	} `yaml:"admin"`

	Payment struct {
		BaseURL   string `yaml:"base_url"`
		AppID     string `yaml:"app_id"`
		SecretKey string `yaml:"secret_key"`
		ReturnURL string `yaml:"return_url"`
	} `yaml:"payment"`

	Frontend struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"frontend"`
}

var AppConfig *Config

// LoadConfig reads config/config.yaml, or builds the config from environment
// variables when DATABASE_URL is set (the test and container path).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60 * 24

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "no-reply@atithi.test"
	cfg.Email.FromName = "Atithi Consultant Services"

	cfg.Admin.NotificationEmail = os.Getenv("ADMIN_NOTIFICATION_EMAIL")
	cfg.Payment.BaseURL = os.Getenv("CASHFREE_BASE_URL")
	cfg.Payment.AppID = os.Getenv("CASHFREE_APP_ID")
	cfg.Payment.SecretKey = os.Getenv("CASHFREE_SECRET_KEY")
	cfg.Payment.ReturnURL = os.Getenv("PAYMENT_RETURN_URL")
	cfg.Frontend.BaseURL = os.Getenv("FRONTEND_BASE_URL")

	AppConfig = &cfg
}
