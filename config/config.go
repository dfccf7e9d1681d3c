// config/config.go
package config

import (
	"errors"
	"fmt"

	"github.com/Erdalk05/akademihub-sub001/internal/billing"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// Config uygulamanın tüm yapılandırmasıdır. Risk eşikleri ve rapor
// kuralları kodda sabit değildir; buradan gelir.
type Config struct {
	Server ServerConfig           `mapstructure:"server"`
	DB     DatabaseConfig         `mapstructure:"database"`
	Redis  RedisConfig            `mapstructure:"redis"`
	JWT    JWTConfig              `mapstructure:"jwt"`
	Risk   billing.RiskThresholds `mapstructure:"risk"`
	Rules  []billing.InsightRule  `mapstructure:"insight_rules"`
}

// App yüklenmiş global yapılandırmadır; Load main'de bir kez çağrılır.
var App *Config

// JwtKey imzalama anahtarının []byte halidir (middleware kullanır).
var JwtKey []byte

// Load yapılandırmayı dosyadan okur, ortam değişkenleriyle ezer ve boş
// bırakılan risk/kural alanlarını varsayılanlarla doldurur.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// Ortam ezmeleri, ör. AKADEMIHUB_DATABASE_DSN
	v.SetEnvPrefix("AKADEMIHUB")
	v.AutomaticEnv()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("jwt.expire_hours", 24)

	if err := v.ReadInConfig(); err != nil {
		// Dosya yoksa ortam değişkenleri + varsayılanlarla devam edilir.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.Risk == (billing.RiskThresholds{}) {
		c.Risk = billing.DefaultRiskThresholds()
	}
	if len(c.Rules) == 0 {
		c.Rules = billing.DefaultInsightRules()
	}

	App = &c
	JwtKey = []byte(c.JWT.Secret)
	return &c, nil
}
