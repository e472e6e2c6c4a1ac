package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// 数据源模式
const (
	SourceStore  = "store"
	SourceStatic = "static"
	SourceRemote = "remote"
)

// 环境变量覆盖
const (
	EnvRemoteURL   = "UNIFORMDASH_REMOTE_URL"
	EnvSourceMode  = "UNIFORMDASH_SOURCE_MODE"
	EnvCatalogPath = "UNIFORMDASH_CATALOG_PATH"
)

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Source  SourceConfig  `toml:"source"`
	Catalog CatalogConfig `toml:"catalog"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir     string `toml:"data_dir"`
	DBName      string `toml:"db_name"`
	SeedOnEmpty bool   `toml:"seed_on_empty"`
}

// SourceConfig 仪表盘数据源配置
type SourceConfig struct {
	Mode           string `toml:"mode"`
	RemoteURL      string `toml:"remote_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Seed           int64  `toml:"seed"`
	Employees      int    `toml:"employees"`
}

// Timeout 远程请求超时
func (s SourceConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// CatalogConfig 枚举文件配置
type CatalogConfig struct {
	Path string `toml:"path"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:     "data",
			DBName:      "uniformdash.db",
			SeedOnEmpty: true,
		},
		Source: SourceConfig{
			Mode:           SourceStore,
			TimeoutSeconds: 30,
			Seed:           42,
			Employees:      500,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
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

func exeDirOrCwd() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		return "."
	}
	return exeDir
}

// DefaultPath 默认配置文件路径：可执行文件同目录下的 config.toml
func DefaultPath() string {
	return filepath.Join(exeDirOrCwd(), "config.toml")
}

// LoadConfigWithInfo 从 TOML 文件加载配置并返回元信息；path 为空时使用默认路径
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	case err != nil:
		return nil, info, err
	default:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(config)
	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// 环境变量覆盖（用于 E2E / 本地运行）
func applyEnv(config *AppConfig) {
	if v := os.Getenv(EnvRemoteURL); v != "" {
		config.Source.RemoteURL = v
	}
	if v := os.Getenv(EnvSourceMode); v != "" {
		config.Source.Mode = v
	}
	if v := os.Getenv(EnvCatalogPath); v != "" {
		config.Catalog.Path = v
	}
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	c.Source.Mode = strings.ToLower(strings.TrimSpace(c.Source.Mode))
	switch c.Source.Mode {
	case SourceStore, SourceStatic:
	case SourceRemote:
		if c.Source.RemoteURL == "" {
			return fmt.Errorf("source mode %q requires remote_url", SourceRemote)
		}
	default:
		return fmt.Errorf("unknown source mode %q", c.Source.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	return nil
}

// ResolveDataDir 数据目录：相对路径位于可执行文件同目录下
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDirOrCwd(), config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}

// DBPath SQLite 文件路径
func DBPath(config *AppConfig) string {
	return GetDataPath(config, "", config.Data.DBName)
}
