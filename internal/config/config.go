package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix 环境变量前缀，例如 PROGRESSO_SERVER_PORT、PROGRESSO_DATA_FILE
const EnvPrefix = "PROGRESSO"

// FileName 配置文件名（位于可执行文件同目录）
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server" envconfig:"SERVER"`
	Data    DataConfig    `toml:"data" envconfig:"DATA"`
	History HistoryConfig `toml:"history" envconfig:"HISTORY"`
	Log     LogConfig     `toml:"log" envconfig:"LOG"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            int      `toml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	DevMode         bool     `toml:"dev_mode" envconfig:"DEV_MODE"`
	OpenBrowser     bool     `toml:"open_browser" envconfig:"OPEN_BROWSER"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gte=0"`
}

// DataConfig 数据源配置
type DataConfig struct {
	File           string   `toml:"file" envconfig:"FILE" validate:"required"`
	Sheet          string   `toml:"sheet" envconfig:"SHEET" validate:"required"`
	CacheTTL       Duration `toml:"cache_ttl" envconfig:"CACHE_TTL" validate:"gte=0"`
	LogoCandidates []string `toml:"logo_candidates" envconfig:"LOGO_CANDIDATES"`
}

// HistoryConfig 加载历史（SQLite）配置
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" envconfig:"ENABLED"`
	DBPath  string `toml:"db_path" envconfig:"DB_PATH" validate:"required_if=Enabled true"`
	Keep    int    `toml:"keep" envconfig:"KEEP" validate:"min=1"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `toml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FromFile      bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            8501,
			DevMode:         false,
			OpenBrowser:     true,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Data: DataConfig{
			File:     "Banco_Dashboard.xlsx",
			Sheet:    "dados_corrigidos",
			CacheTTL: Duration(5 * time.Second),
			LogoCandidates: []string{
				"logo.png",
				"logo.jpg",
				"logo.jpeg",
				"images (1).png",
				"images.png",
			},
		},
		History: HistoryConfig{
			Enabled: false,
			DBPath:  "progresso.db",
			Keep:    200,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// BaseDir 相对路径的基准目录；无法获取可执行文件目录时使用当前目录
func BaseDir() string {
	dir, err := GetExeDir()
	if err != nil {
		return "."
	}
	return dir
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFrom(filepath.Join(BaseDir(), FileName))
}

// LoadFrom 按“默认值 -> 配置文件 -> 环境变量”的顺序合并配置并校验
func LoadFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FromFile = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, info, fmt.Errorf("failed to load config from env: %w", err)
	}
	if _, ok := os.LookupEnv(EnvPrefix + "_SERVER_PORT"); ok {
		info.PortSpecified = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WriteDefault 写出一份默认配置文件（已存在时不覆盖）
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvePath 将相对路径解析到基准目录下
func ResolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
