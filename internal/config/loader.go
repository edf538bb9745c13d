package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀, 例如 XMLUP_SERVER_PORT
const EnvPrefix = "XMLUP"

var (
	globalConfig *Config
	once         sync.Once
	configPath   string
)

// LoadConfig 加载配置文件(进程内只加载一次)
func LoadConfig(configFile string) (*Config, error) {
	var err error

	once.Do(func() {
		var cfg *Config
		cfg, err = Load(configFile)
		if err == nil {
			globalConfig = cfg
		}
		configPath = configFile
	})

	return globalConfig, err
}

// Load 从文件和环境变量加载配置, 文件不存在时仅使用默认值和环境变量
func Load(configFile string) (*Config, error) {
	v := viper.New()

	registerDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	setDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// registerDefaults 注册默认值, 同时让 AutomaticEnv 能识别全部键
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.production_mode", false)
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("database.path", "./database/xml_uploader.db")

	v.SetDefault("upload.max_bytes", 10*1024*1024)
	v.SetDefault("upload.default_file_name", "unnamed.xml")
	v.SetDefault("upload.allow_doctype", false)
	v.SetDefault("upload.max_concurrent", 0)

	v.SetDefault("redis_service.host", "")
	v.SetDefault("redis_service.port", 6379)
	v.SetDefault("redis_service.db", 0)
	v.SetDefault("redis_service.password", "")
	v.SetDefault("redis_service.slot_ttl_seconds", 60)

	v.SetDefault("cors.origins", []string{})
	v.SetDefault("cors.allow_credentials", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// setDefaults 设置默认值
func setDefaults(cfg *Config) {
	if cfg.Upload.DefaultFileName == "" {
		cfg.Upload.DefaultFileName = "unnamed.xml"
	}
	if cfg.Redis.SlotTTLSeconds <= 0 {
		cfg.Redis.SlotTTLSeconds = 60
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"Content-Type", "X-Filename", "X-Request-ID"}
	}
}

// validateConfig 验证配置
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务器端口: %d", cfg.Server.Port)
	}

	if cfg.Upload.MaxBytes <= 0 {
		return fmt.Errorf("无效的上传大小限制: %d", cfg.Upload.MaxBytes)
	}

	if cfg.Upload.MaxConcurrent < 0 {
		return fmt.Errorf("无效的上传并发数: %d", cfg.Upload.MaxConcurrent)
	}

	if cfg.Upload.MaxConcurrent > 0 && !cfg.Redis.Enabled() {
		return fmt.Errorf("上传并发限制需要配置 redis_service.host")
	}

	// 内存数据库不需要目录
	if cfg.Database.Path != "" && !strings.HasPrefix(cfg.Database.Path, "file:") && cfg.Database.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Database.Path)
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return fmt.Errorf("创建数据库目录失败: %w", err)
			}
		}
	}

	return nil
}

// ConfigPath 返回首次加载时使用的配置文件路径
func ConfigPath() string {
	return configPath
}
