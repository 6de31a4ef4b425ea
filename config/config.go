package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		// SecretKeys is ordered newest first: the first key signs new
		// access tokens, every listed key is accepted for verification.
		// Listing more than one key allows zero-downtime key rotation.
		SecretKeys            []string `mapstructure:"secret_keys"`
		AccessTokenTTLMinutes int      `mapstructure:"access_token_ttl_minutes"`
		RefreshTokenTTLDays   int      `mapstructure:"refresh_token_ttl_days"`
	} `mapstructure:"jwt"`
	Maintenance struct {
		PurgeIntervalMinutes int `mapstructure:"purge_interval_minutes"`
	} `mapstructure:"maintenance"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
