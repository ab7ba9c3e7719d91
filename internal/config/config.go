package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Chat   ChatConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Namespace prefixes every snapshot key.
	Namespace string
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

type ChatConfig struct {
	Endpoint string
	APIKey   string
	Model    string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_NAMESPACE", "b2b")
	viper.SetDefault("JWT_ACCESS_EXPIRY", 60)
	viper.SetDefault("CHAT_MODEL", "catalog-assistant-v1")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Redis: RedisConfig{
			Host:      viper.GetString("REDIS_HOST"),
			Port:      viper.GetString("REDIS_PORT"),
			Password:  viper.GetString("REDIS_PASSWORD"),
			DB:        viper.GetInt("REDIS_DB"),
			Namespace: viper.GetString("REDIS_NAMESPACE"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Chat: ChatConfig{
			Endpoint: viper.GetString("CHAT_ENDPOINT"),
			APIKey:   viper.GetString("CHAT_API_KEY"),
			Model:    viper.GetString("CHAT_MODEL"),
		},
	}
}
