package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "RAWGET"

// Config holds one rawget invocation. Flags override RAWGET_* environment
// variables, which override the values of an optional .env file.
type Config struct {
	URL         string        `mapstructure:"-"`
	Method      string        `mapstructure:"method"`
	Data        string        `mapstructure:"data"`
	Headers     []string      `mapstructure:"header"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ConnTimeout time.Duration `mapstructure:"connect-timeout"`
	VerifyTLS   bool          `mapstructure:"verify-tls"`
	NoSNI       bool          `mapstructure:"no-sni"`
	Proxy       string        `mapstructure:"proxy"`
	Encoding    string        `mapstructure:"encoding"`
	Decode      bool          `mapstructure:"decode"`
	Include     bool          `mapstructure:"include"`
	LogLevel    string        `mapstructure:"log-level"`
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("rawget", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringP("method", "X", "GET", "request method")
	fs.StringP("data", "d", "", "request body, sent verbatim")
	fs.StringArrayP("header", "H", nil, `extra header "Name: value" (repeatable)`)
	fs.Duration("timeout", 5*time.Second, "response wait before returning a response without Content-Length")
	fs.Duration("connect-timeout", 30*time.Second, "dial and TLS handshake timeout")
	fs.Bool("verify-tls", false, "verify the server certificate")
	fs.Bool("no-sni", false, "do not send SNI")
	fs.String("proxy", "", "SOCKS5 proxy URL")
	fs.StringP("encoding", "e", "utf-8", "text encoding used to print the body")
	fs.Bool("decode", false, "undo Content-Encoding before printing")
	fs.BoolP("include", "i", false, "print the status code and headers")
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.String("env-file", "", "load environment variables from this file")

	return fs
}

// loadConfig parses args and merges them with the environment
func loadConfig(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 1 {
		return nil, errors.New("expected exactly one URL argument")
	}

	envFile, _ := fs.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, "loading env file %s", envFile)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.Wrap(err, "loading .env")
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	cfg.URL = fs.Arg(0)
	cfg.Method = strings.ToUpper(cfg.Method)

	return &cfg, nil
}

// parseHeader splits a "Name: value" flag
func parseHeader(h string) (string, string, error) {
	name, value, ok := strings.Cut(h, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", errors.Errorf("malformed header %q", h)
	}
	return name, strings.TrimSpace(value), nil
}
