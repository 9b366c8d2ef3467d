package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Env string `mapstructure:"GO_ENV"`

	// Client
	BackendURL    string `mapstructure:"BACKEND_URL"`
	RealtimeURL   string `mapstructure:"REALTIME_URL"`
	CachePath     string `mapstructure:"CACHE_PATH"`
	CatalogFile   string `mapstructure:"CATALOG_FILE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	UserID        string `mapstructure:"USER_ID"`

	// Devserver
	Port         string `mapstructure:"PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("GO_ENV", "development")
	viper.SetDefault("BACKEND_URL", "http://localhost:8080")
	viper.SetDefault("REALTIME_URL", "ws://localhost:8080/ws")
	viper.SetDefault("CACHE_PATH", "karma-cache.db")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "karma-dev.db")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
