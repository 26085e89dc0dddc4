package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port       string `mapstructure:"port" validate:"required"`
		Env        string `mapstructure:"env" validate:"oneof=development production test"`
		Production bool   `mapstructure:"-"`
	} `mapstructure:"app"`
	HTTP struct {
		RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	} `mapstructure:"http"`
	Mongo struct {
		URI string `mapstructure:"uri" validate:"required"`
		DB  string `mapstructure:"db" validate:"required"`
	} `mapstructure:"mongo"`
	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret" validate:"required"`
		TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
	} `mapstructure:"auth"`
	Redis struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"redis"`
	RateLimit struct {
		PerMin int `mapstructure:"per_min" validate:"gte=0"`
	} `mapstructure:"rate_limit"`
	Rabbit struct {
		URL         string   `mapstructure:"url"`
		Exchange    string   `mapstructure:"exchange" validate:"required"`
		Queue       string   `mapstructure:"queue" validate:"required"`
		BindKeys    []string `mapstructure:"bind_keys" validate:"min=1"`
		Concurrency int      `mapstructure:"concurrency" validate:"gte=1"`
	} `mapstructure:"rabbit"`
	DD struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"dd"`
}

// Load reads .env and config.yaml from dir when present, then environment variables.
// Environment always wins over the file; built-in defaults fill the rest.
func Load(dir string) (Config, error) {
	var cfg Config

	_ = godotenv.Load(dir + "/.env")

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bind := map[string]string{
		"app.port":              "APP_PORT",
		"app.env":               "APP_ENV",
		"http.request_timeout":  "REQUEST_TIMEOUT",
		"http.shutdown_timeout": "SHUTDOWN_TIMEOUT",
		"mongo.uri":             "MONGO_URI",
		"mongo.db":              "MONGO_DB",
		"auth.jwt_secret":       "JWT_SECRET",
		"auth.token_ttl":        "TOKEN_TTL",
		"redis.addr":            "REDIS_ADDR",
		"rate_limit.per_min":    "RATE_LIMIT_PER_MIN",
		"rabbit.url":            "RABBIT_URL",
		"rabbit.exchange":       "RABBIT_EXCHANGE",
		"rabbit.queue":          "RABBIT_QUEUE",
		"rabbit.bind_keys":      "RABBIT_BIND_KEYS",
		"rabbit.concurrency":    "RABBIT_CONCURRENCY",
		"dd.enabled":            "DD_ENABLED",
	}
	for key, env := range bind {
		if err := v.BindEnv(key, env); err != nil {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	// env values arrive comma separated and possibly padded
	cfg.Rabbit.BindKeys = splitList(strings.Join(cfg.Rabbit.BindKeys, ","))
	cfg.App.Production = cfg.App.Env == "production"

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("http.request_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.db", "devconnector")
	v.SetDefault("auth.jwt_secret", "default_secret_key")
	v.SetDefault("auth.token_ttl", 36000*time.Second)
	v.SetDefault("redis.addr", "")
	v.SetDefault("rate_limit.per_min", 20)
	v.SetDefault("rabbit.url", "")
	v.SetDefault("rabbit.exchange", "devconnector.events")
	v.SetDefault("rabbit.queue", "devconnector.notify")
	v.SetDefault("rabbit.bind_keys", []string{"user.registered", "profile.saved"})
	v.SetDefault("rabbit.concurrency", 4)
	v.SetDefault("dd.enabled", false)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
