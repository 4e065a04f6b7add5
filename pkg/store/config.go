package store

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config exposes the settings the store and hosts need.
type Config interface {
	BasePath() string
	RedisAddr() string
	RedisPassword() string
	RedisDB() int
	ListenAddr() string
}

// LoadConfig reads .widgets.yaml from the working directory (or
// WIDGETS_CONFIG_PATH) and WIDGETS_* environment variables. A .env file is
// loaded first when present.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("store: load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("path", "~/.widgets.db")
	v.SetDefault("host.addr", "127.0.0.1:8787")
	v.SetDefault("redis.db", 0)
	v.SetConfigName(".widgets") // .yaml is implicit
	v.SetEnvPrefix("WIDGETS")
	v.AutomaticEnv()

	if override := os.Getenv("WIDGETS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:          path,
		Redis:         v.GetString("redis.addr"),
		RedisPass:     v.GetString("redis.password"),
		RedisDatabase: v.GetInt("redis.db"),
		Listen:        v.GetString("host.addr"),
	}, nil
}

// StaticConfig builds a Config from literal values, mostly for tests.
func StaticConfig(path string) Config {
	return &fileConfig{Path: path, Listen: "127.0.0.1:0"}
}

type fileConfig struct {
	Path          string `json:"path"`
	Redis         string `json:"redis,omitempty"`
	RedisPass     string `json:"-"`
	RedisDatabase int    `json:"redisDB,omitempty"`
	Listen        string `json:"listen"`
}

func (f *fileConfig) BasePath() string      { return f.Path }
func (f *fileConfig) RedisAddr() string     { return f.Redis }
func (f *fileConfig) RedisPassword() string { return f.RedisPass }
func (f *fileConfig) RedisDB() int          { return f.RedisDatabase }
func (f *fileConfig) ListenAddr() string    { return f.Listen }
