package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	DefaultPort         = 8080
	DefaultWorkers      = 4
	DefaultMaxBodyBytes = 1 << 20 // 1MB
)

// Config holds everything the server reads at startup. Nothing in it can
// change once the server is running.
type Config struct {
	Host string
	Port int

	// Workers is the fixed size of the connection worker pool.
	Workers int
	// MaxBodyBytes caps Content-Length; 0 disables the cap.
	MaxBodyBytes int
	// ReadTimeout bounds how long a worker waits on a silent client.
	// 0 means no deadline, in which case a stalled client holds its worker
	// until the peer goes away.
	ReadTimeout time.Duration

	// Gzip wraps the routes in the compression middleware.
	Gzip bool
	// ServerHeader, when non-empty, is sent as the Server header.
	ServerHeader string

	LogLevel  string
	LogFormat string
}

// Default returns the configuration used when no flags are given.
func Default() *Config {
	return &Config{
		Port:         DefaultPort,
		Workers:      DefaultWorkers,
		MaxBodyBytes: DefaultMaxBodyBytes,
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Workers < 1 {
		return errors.New("at least one worker is required")
	}
	if c.MaxBodyBytes < 0 {
		return errors.New("max body size cannot be negative")
	}
	if c.ReadTimeout < 0 {
		return errors.New("read timeout cannot be negative")
	}
	return nil
}

// Parse reads flags from args. The PORT environment variable, looked up
// through getenv, replaces the default port; an explicit -port flag wins
// over both.
func Parse(name string, args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	cfg := Default()

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "interface to listen on (empty for all)")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port number")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of connection workers")
	fs.IntVar(&cfg.MaxBodyBytes, "max-body", cfg.MaxBodyBytes, "largest accepted Content-Length in bytes, 0 for no limit")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "per-connection read deadline, 0 for none")
	fs.BoolVar(&cfg.Gzip, "gzip", cfg.Gzip, "gzip large responses for clients that accept it")
	fs.StringVar(&cfg.ServerHeader, "server-header", cfg.ServerHeader, "value of the Server response header, empty to omit")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "console or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
