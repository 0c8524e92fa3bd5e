package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 客户端运行配置
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Store     StoreConfig     `mapstructure:"store"`
	Poll      PollConfig      `mapstructure:"poll"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Log       LogConfig       `mapstructure:"log"`
}

// APIConfig 远程 REST API
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"` // resty 请求日志
}

// StoreConfig 本地存储 (会话、收藏)
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// PollConfig 支付状态轮询
type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// DashboardConfig 仪表盘自动刷新
type DashboardConfig struct {
	RefreshSpec string `mapstructure:"refresh_spec"`
}

// LogConfig 日志
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load 读取配置
// 优先级：环境变量 (NHV_ 前缀) > 配置文件 > 默认值
// configFile 为空时在当前目录与 ~/.nhv 下查找 config.yaml，找不到不算错误
func Load(configFile string) (*Config, error) {
	// .env 只补充未设置的环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env failed: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NHV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".nhv"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.debug", false)

	v.SetDefault("store.path", defaultStorePath())

	v.SetDefault("poll.interval", 5*time.Second)
	v.SetDefault("poll.max_attempts", 30)

	v.SetDefault("dashboard.refresh_spec", "@every 30s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", true)
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "nhv_client.db"
	}
	return filepath.Join(home, ".nhv", "client.db")
}

// Validate 基础校验
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Poll.Interval <= 0 {
		return errors.New("poll.interval must be positive")
	}
	if c.Poll.MaxAttempts <= 0 {
		return errors.New("poll.max_attempts must be positive")
	}
	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	return nil
}
