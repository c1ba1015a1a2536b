package core

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		AppName  string
		Build    string
		WorkDir  string

		// SecretKey signs JWTs. No fallback literal: startup fails when it is not configured.
		SecretKey []byte

		// Admin-registration authorization codes. Mandatory, same as SecretKey.
		SuperAdminAuthCode   string
		CollegeAdminAuthCode string

		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string
		UploadsDir       string

		Server   ServerConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host               string
		Port               int
		JWTExpirationDelta time.Duration
		RateLimitRequests  int
		RateLimitWindow    time.Duration
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       int
		User       string
		Password   string
		AdminUser  string
		AdminPass  string
		Name       string
		DisableTLS bool
	}
)

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from the environment (optionally seeded from
// config/.env.<env>) and fails closed on missing secrets.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "College Event Hub")
	v.SetDefault("build", "dev")
	v.SetDefault("frontendBaseURL", "http://localhost:3001")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("uploadsDir", "uploads")

	v.SetDefault("serverHost", "0.0.0.0")
	v.SetDefault("serverPort", 8080)
	v.SetDefault("jwtExpirationDelta", time.Hour)
	v.SetDefault("rateLimitRequests", 100)
	v.SetDefault("rateLimitWindow", 15*time.Minute)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", 5432)
	v.SetDefault("databaseUser", "eventhub")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseName", "eventhub")
	v.SetDefault("databaseDisableTLS", false)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:                v.GetBool("debug"),
		TestMode:             v.GetBool("testMode"),
		Env:                  env,
		AppName:              v.GetString("appName"),
		Build:                v.GetString("build"),
		WorkDir:              wd,
		SecretKey:            []byte(v.GetString("secretKey")),
		SuperAdminAuthCode:   v.GetString("superAdminAuthCode"),
		CollegeAdminAuthCode: v.GetString("collegeAdminAuthCode"),
		FrontendBaseURL:      v.GetString("frontendBaseURL"),
		DefaultFromEmail:     mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridAPIKey:       v.GetString("sendgridApiKey"),
		RollbarToken:         v.GetString("rollbarToken"),
		UploadsDir:           v.GetString("uploadsDir"),
		Server: ServerConfig{
			Host:               v.GetString("serverHost"),
			Port:               v.GetInt("serverPort"),
			JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
			RateLimitRequests:  v.GetInt("rateLimitRequests"),
			RateLimitWindow:    v.GetDuration("rateLimitWindow"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("databaseEngine"),
			Host:       v.GetString("databaseHost"),
			Port:       v.GetInt("databasePort"),
			User:       v.GetString("databaseUser"),
			Password:   v.GetString("databasePassword"),
			AdminUser:  v.GetString("databaseAdminUser"),
			AdminPass:  v.GetString("databaseAdminPassword"),
			Name:       v.GetString("databaseName"),
			DisableTLS: v.GetBool("databaseDisableTLS"),
		},
	}

	if len(conf.SecretKey) == 0 {
		return nil, errors.New("config: secretKey is required")
	}
	if conf.SuperAdminAuthCode == "" || conf.CollegeAdminAuthCode == "" {
		return nil, errors.New("config: superAdminAuthCode and collegeAdminAuthCode are required")
	}
	return conf, nil
}
