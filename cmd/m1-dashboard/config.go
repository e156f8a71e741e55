package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/5G-MAG/m1-dashboard/internal/af"
	internalhttp "github.com/5G-MAG/m1-dashboard/internal/api/http"
	"github.com/5G-MAG/m1-dashboard/internal/auth"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
)

const (
	flagConfig     = "config"
	flagBackendURL = "backend-url"
	flagLogLevel   = "log-level"
)

type Config struct {
	Log     LogConfig           `mapstructure:"log"`
	Http    internalhttp.Config `mapstructure:"http"`
	Backend af.Config           `mapstructure:"backend"`
	Auth    auth.Config         `mapstructure:"auth"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", LOG_LEVEL_INFO)
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.admin_api_key", "")
	v.SetDefault("http.tls.enabled", false)
	v.SetDefault("http.tls.cert_file", "certs/dashboard.crt")
	v.SetDefault("http.tls.key_file", "certs/dashboard.key")
	v.SetDefault("http.tls.hosts", []string{"localhost", "127.0.0.1"})
	v.SetDefault("backend.url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.poll_interval", dashboard.DefaultPollInterval.String())
	v.SetDefault("backend.proxy_views", true)
	v.SetDefault("backend.tls.enabled", false)
	v.SetDefault("backend.tls.cert_file", "")
	v.SetDefault("backend.tls.key_file", "")
	v.SetDefault("backend.tls.ca_file", "")
	v.SetDefault("backend.tls.server_name_override", "")
	v.SetDefault("backend.tls.insecure_skip_verify", false)
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", auth.DefaultTokenTTL.String())
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"backend.url": flagBackendURL,
		"log.level":   flagLogLevel,
	}
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag %q is not defined", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig reads application.yml (or the file named by --config), the
// .env file and the environment. BACKEND_URL overrides backend.url.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (Config, error) {
	var config Config

	_ = godotenv.Load()

	setDefaults(v)
	if err := bindFlags(v, flags); err != nil {
		return config, err
	}

	configFile, _ := flags.GetString(flagConfig)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("application")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./cmd/m1-dashboard")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	return config, nil
}

func printConfig(config Config) {
	redacted := config
	if redacted.Http.AdminAPIKey != "" {
		redacted.Http.AdminAPIKey = "***"
	}
	if redacted.Auth.JWTSecret != "" {
		redacted.Auth.JWTSecret = "***"
	}
	configJSON, err := json.MarshalIndent(redacted, "", "  ")
	if err == nil {
		fmt.Fprintln(os.Stderr, "Config loaded:")
		fmt.Fprintln(os.Stderr, string(configJSON))
	}
}
