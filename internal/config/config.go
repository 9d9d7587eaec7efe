package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/vovakirdan/wiresignal/internal/core"
)

// Config holds server configuration values.
type Config struct {
	Host              string        `mapstructure:"host" yaml:"host"`
	Port              int           `mapstructure:"port" yaml:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	Channels         []string `mapstructure:"channels" yaml:"channels"`
	ProtectedChannel string   `mapstructure:"protected_channel" yaml:"protected_channel"`
	ChannelPassword  string   `mapstructure:"channel_password" yaml:"channel_password"`

	EventBuffer     int      `mapstructure:"event_buffer" yaml:"event_buffer"`
	MaxMessageBytes int64    `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	AllowedOrigins  []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Host:              "",
		Port:              10000,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		Channels:          []string{"exo1", "exo2", "exo3", "exo4"},
		ProtectedChannel:  "staff",
		ChannelPassword:   "changeme",
		EventBuffer:       64,
		MaxMessageBytes:   64 << 10,
		AllowedOrigins:    []string{"*"},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Host != "" {
		c.Host = other.Host
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if len(other.Channels) > 0 {
		c.Channels = other.Channels
	}
	if other.ProtectedChannel != "" {
		c.ProtectedChannel = other.ProtectedChannel
	}
	if other.ChannelPassword != "" {
		c.ChannelPassword = other.ChannelPassword
	}
	if other.EventBuffer != 0 {
		c.EventBuffer = other.EventBuffer
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
}

// Validate reports the first problem that would prevent the server from starting.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.EventBuffer < 1 {
		return errors.New("event_buffer must be positive")
	}
	if c.MaxMessageBytes < 1 {
		return errors.New("max_message_bytes must be positive")
	}
	names := c.channelNames()
	if len(names) == 0 {
		return errors.New("at least one channel must be configured")
	}
	if lo.Contains(names, "") {
		return errors.New("channel names must not be empty")
	}
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return fmt.Errorf("duplicate channel %q", dup[0])
	}
	if c.ProtectedChannel != "" && c.ChannelPassword == "" {
		return fmt.Errorf("protected channel %q requires channel_password", c.ProtectedChannel)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ChannelDefs returns the channel set, protected channel last.
func (c Config) ChannelDefs() []core.ChannelDef {
	defs := lo.Map(c.Channels, func(name string, _ int) core.ChannelDef {
		return core.ChannelDef{Name: name}
	})
	if c.ProtectedChannel != "" {
		defs = append(defs, core.ChannelDef{Name: c.ProtectedChannel, Protected: true})
	}
	return defs
}

// Secrets maps protected channels to their shared secret.
func (c Config) Secrets() map[string]string {
	if c.ProtectedChannel == "" {
		return nil
	}
	return map[string]string{c.ProtectedChannel: c.ChannelPassword}
}

func (c Config) channelNames() []string {
	names := append([]string(nil), c.Channels...)
	if c.ProtectedChannel != "" {
		names = append(names, c.ProtectedChannel)
	}
	return names
}
