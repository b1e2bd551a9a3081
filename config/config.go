package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Profile  ProfileConfig  `yaml:"profile"`
	Matcher  MatcherConfig  `yaml:"matcher"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite, mysql
	DSN  string `yaml:"dsn"`
}

// CatalogConfig 目录库与远端解析配置
type CatalogConfig struct {
	BundledDir   string        `yaml:"bundled_dir"`
	ProjectDir   string        `yaml:"project_dir"` // 相对工作区根
	CacheDir     string        `yaml:"cache_dir"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	RawBaseURL   string        `yaml:"raw_base_url"`
	DefaultRef   string        `yaml:"default_ref"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	Watch        bool          `yaml:"watch"`
}

type ProfileConfig struct {
	CacheTTL         time.Duration `yaml:"cache_ttl"`
	MaxEntriesPerDir int           `yaml:"max_entries_per_dir"`
}

type MatcherConfig struct {
	MaxResults int `yaml:"max_results"`
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "./data/app.db",
		},
		Catalog: CatalogConfig{
			BundledDir:   "./catalog",
			ProjectDir:   ".a2a/catalog",
			CacheDir:     "./data/skill-cache",
			CacheTTL:     24 * time.Hour,
			RawBaseURL:   "https://raw.githubusercontent.com",
			DefaultRef:   "main",
			FetchTimeout: 30 * time.Second,
			Watch:        true,
		},
		Profile: ProfileConfig{
			CacheTTL:         60 * time.Second,
			MaxEntriesPerDir: 200,
		},
		Matcher: MatcherConfig{
			MaxResults: 5,
		},
	}
}

func loadConfig() *Config {
	// .env 只补充未设置的环境变量
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		klog.Warningf("[config] 读取 .env 失败: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	config, err := Load(configPath)
	if err != nil {
		klog.Warningf("[config] 解析配置文件失败 %s: %v，使用默认配置", configPath, err)
		config = Default()
		applyEnv(config)
	}
	return config
}

// Load 读取配置文件并应用环境变量；文件不存在时使用默认值
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	applyEnv(config)
	return config, nil
}

// applyEnv 环境变量优先级高于配置文件
func applyEnv(config *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.Server.Mode = mode
	}

	// 数据库环境变量
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dbDSN := os.Getenv("DB_DSN"); dbDSN != "" {
		config.Database.DSN = dbDSN
	}

	// 目录库环境变量
	if dir := os.Getenv("CATALOG_DIR"); dir != "" {
		config.Catalog.BundledDir = dir
	}
	if dir := os.Getenv("SKILL_CACHE_DIR"); dir != "" {
		config.Catalog.CacheDir = dir
	}
	if base := os.Getenv("SKILL_RAW_BASE_URL"); base != "" {
		config.Catalog.RawBaseURL = base
	}
	if watch := os.Getenv("CATALOG_WATCH"); watch != "" {
		if v, err := strconv.ParseBool(watch); err == nil {
			config.Catalog.Watch = v
		}
	}
}

// Save 写出 YAML 配置
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
