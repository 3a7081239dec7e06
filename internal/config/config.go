package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	AppEnv       string `mapstructure:"APP_ENV"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	LaudusBaseURL      string `mapstructure:"LAUDUS_BASE_URL"`
	LaudusUsername     string `mapstructure:"LAUDUS_USERNAME"`
	LaudusPassword     string `mapstructure:"LAUDUS_PASSWORD"`
	LaudusCompanyVATID string `mapstructure:"LAUDUS_COMPANY_VAT_ID"`

	EmailServerURL string `mapstructure:"EMAIL_SERVER_URL"`
}

// IsProduction gates the diagnostic fields of error responses.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 3000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_PATH", "/data/vivendi.db")
	viper.SetDefault("JWT_SECRET", "default_secret")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("LAUDUS_BASE_URL", "")
	viper.SetDefault("LAUDUS_USERNAME", "")
	viper.SetDefault("LAUDUS_PASSWORD", "")
	viper.SetDefault("LAUDUS_COMPANY_VAT_ID", "")
	viper.SetDefault("EMAIL_SERVER_URL", "")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
