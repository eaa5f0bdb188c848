package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RazorpayConfig struct {
		APIKey    string
		APISecret string
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		Currency         string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string
		AdminEmail       string
		AdminPassword    string
		Server           ServerConfig
		Database         DatabaseConfig
		Razorpay         RazorpayConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (in increasing precedence).
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Academia")
	conf.SetDefault("secretKey", "x23=j$fn0y)@+wple9#mzt(7&ud^5vq-4bh_8rgc6s!aoik1")
	conf.SetDefault("frontendBaseUrl", "http://localhost:5173")
	conf.SetDefault("currency", "INR")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("serverHost", "0.0.0.0:8000")
	conf.SetDefault("serverDebugHost", "0.0.0.0:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseName", "academia")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseUser", "academia")
	conf.SetDefault("databasePassword", "academia")
	conf.SetDefault("databaseDisableTls", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.SetEnvPrefix(env)
	conf.AutomaticEnv()

	return &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		Env:              env,
		Build:            conf.GetString("build"),
		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		FrontendBaseURL:  conf.GetString("frontendBaseUrl"),
		Currency:         conf.GetString("currency"),
		DefaultFromEmail: mail.Address{Address: conf.GetString("defaultFromEmail")},
		SendgridAPIKey:   conf.GetString("sendgridApiKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		AdminEmail:       conf.GetString("adminEmail"),
		AdminPassword:    conf.GetString("adminPassword"),
		Server: ServerConfig{
			Host:               conf.GetString("serverHost"),
			DebugHost:          conf.GetString("serverDebugHost"),
			ShutdownTimeout:    conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Name:          conf.GetString("databaseName"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTls"),
		},
		Razorpay: RazorpayConfig{
			APIKey:    conf.GetString("razorpayApiKey"),
			APISecret: conf.GetString("razorpayApiSecret"),
		},
	}
}
