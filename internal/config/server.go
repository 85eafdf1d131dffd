package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP server settings. Every key can be set from the
// environment with the GRID_ prefix, e.g. GRID_API_PORT or GRID_CACHE_TTL.
type ServerConfig struct {
	Port          string        `mapstructure:"api_port"`
	Env           string        `mapstructure:"api_env"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
	StaticDir     string        `mapstructure:"static_dir"`
	FundsFile     string        `mapstructure:"funds_file"`
	StrategiesDir string        `mapstructure:"strategies_dir"`
	DataBaseURL   string        `mapstructure:"data_base_url"`
	DataTimeout   time.Duration `mapstructure:"data_timeout"`
	DataRateLimit float64       `mapstructure:"data_rate_limit"`
	CacheEnable   bool          `mapstructure:"cache_enable"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	Timezone      string        `mapstructure:"timezone"`
	CORSOrigins   []string      `mapstructure:"cors_origins"`
}

func (s *ServerConfig) Production() bool {
	return strings.EqualFold(s.Env, "production")
}

// LoadServer reads server settings from defaults, an optional config file and
// the environment, in increasing priority.
func LoadServer(file string) (*ServerConfig, error) {
	v := viper.New()
	v.SetDefault("api_port", "8080")
	v.SetDefault("api_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("static_dir", "./web/dist")
	v.SetDefault("funds_file", "./data/funds.txt")
	v.SetDefault("strategies_dir", "./examples/strategies")
	v.SetDefault("data_base_url", "")
	v.SetDefault("data_timeout", 30*time.Second)
	v.SetDefault("data_rate_limit", 5.0)
	v.SetDefault("cache_enable", true)
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("timezone", "Asia/Shanghai")
	v.SetDefault("cors_origins", []string{"*"})

	v.SetEnvPrefix("GRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
