package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type (
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		API      APIConfig
		Server   ServerConfig
		Database DatabaseConfig
		Rollbar  RollbarConfig
	}

	// APIConfig configures the client side: where the school backend lives
	// and how requests to it behave.
	APIConfig struct {
		BaseURL     string
		Timeout     time.Duration
		SessionFile string
	}

	// ServerConfig configures the dev stub backend (apps/devapi).
	ServerConfig struct {
		Addr               string
		SecretKey          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		Engine string // "inmem" (default) | "postgres"
		URL    string
	}

	RollbarConfig struct {
		Token string
	}
)

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Shule")
	v.SetDefault("api.baseurl", "http://localhost:8000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.sessionfile", filepath.Join(homeDir(), ".shule", "session"))
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.secretkey", "h2(h!x)#*c2(#yg4h^$cegm2emy-poq5-wer)enb$+57=dz&uox")
	v.SetDefault("server.jwtexpirationdelta", 7*24*time.Hour)
	v.SetDefault("server.shutdowntimeout", 5*time.Second)
	v.SetDefault("database.engine", "inmem")
	v.SetDefault("database.url", "")
	v.SetDefault("rollbar.token", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	Conf = &Config{
		Env:      env,
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),
		AppName:  v.GetString("appName"),
		API: APIConfig{
			BaseURL:     v.GetString("api.baseurl"),
			Timeout:     v.GetDuration("api.timeout"),
			SessionFile: v.GetString("api.sessionfile"),
		},
		Server: ServerConfig{
			Addr:               v.GetString("server.addr"),
			SecretKey:          v.GetString("server.secretkey"),
			JWTExpirationDelta: v.GetDuration("server.jwtexpirationdelta"),
			ShutdownTimeout:    v.GetDuration("server.shutdowntimeout"),
		},
		Database: DatabaseConfig{
			Engine: v.GetString("database.engine"),
			URL:    v.GetString("database.url"),
		},
		Rollbar: RollbarConfig{
			Token: v.GetString("rollbar.token"),
		},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
