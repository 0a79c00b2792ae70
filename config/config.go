// Package config loads btdump settings from a file and the environment.
package config

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/btdump"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvPrefix is prepended to environment overrides, e.g. BTDUMP_FORMAT or
// BTDUMP_LOG_LEVEL.
const EnvPrefix = "BTDUMP"

type Config struct {
	Format           string    `mapstructure:"format"`
	BufferSize       int       `mapstructure:"buffer_size"`
	BindBothChannels bool      `mapstructure:"bind_both_channels"`
	Log              LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level string        `mapstructure:"level"`
	File  LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables a rotating log file when Filename is set.
type LogFileConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`    // megabytes
	MaxBackups int    `mapstructure:"max_backups"` // number of backups
	MaxAge     int    `mapstructure:"max_age"`     // days
	Compress   bool   `mapstructure:"compress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:           btdump.FormatText,
		BufferSize:       btdump.DefaultBufferSize,
		BindBothChannels: true,
		Log: LogConfig{
			Level: "info",
			File: LogFileConfig{
				MaxSize:    100,
				MaxBackups: 3,
				MaxAge:     28,
			},
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("format", d.Format)
	v.SetDefault("buffer_size", d.BufferSize)
	v.SetDefault("bind_both_channels", d.BindBothChannels)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file.filename", d.Log.File.Filename)
	v.SetDefault("log.file.max_size", d.Log.File.MaxSize)
	v.SetDefault("log.file.max_backups", d.Log.File.MaxBackups)
	v.SetDefault("log.file.max_age", d.Log.File.MaxAge)
	v.SetDefault("log.file.compress", d.Log.File.Compress)
}

// Load reads the configuration file at path, if path is not empty, applies
// environment overrides and validates the result. The file type follows
// the extension (yaml, toml, json).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Format {
	case btdump.FormatText, btdump.FormatJSON:
	default:
		return errors.Wrapf(btdump.ErrInvalidConfig, "format %q (must be text or json)", c.Format)
	}
	if c.BufferSize <= 0 {
		return errors.Wrapf(btdump.ErrInvalidConfig, "buffer_size %d", c.BufferSize)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(btdump.ErrInvalidConfig, "log.level %q", c.Log.Level)
	}
	return nil
}

// Options converts the dissector settings into session options.
func (c *Config) Options() []btdump.Option {
	return []btdump.Option{
		btdump.OptFormat(c.Format),
		btdump.OptBufferSize(c.BufferSize),
		btdump.OptBindBothChannels(c.BindBothChannels),
	}
}

// LogWriter returns a rotating writer for the log file, or nil when no
// file is configured.
func (c *Config) LogWriter() io.WriteCloser {
	f := c.Log.File
	if f.Filename == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   f.Filename,
		MaxSize:    f.MaxSize,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAge,
		Compress:   f.Compress,
	}
}
