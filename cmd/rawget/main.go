// Command rawget sends one HTTP/1.1 request over a raw socket and prints the
// response.
//
//	rawget [flags] URL
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/WhileEndless/go-sockhttp/pkg/rawhttp"
	"github.com/WhileEndless/go-sockhttp/pkg/response"
	"github.com/WhileEndless/go-sockhttp/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(stderr, "rawget: %v\n", err)
		return 2
	}

	logger := newLogger(stderr, cfg.LogLevel)

	if err := fetch(ctx, cfg, &logger, stdout); err != nil {
		logger.Error().Err(err).Str("url", cfg.URL).Msg("request failed")
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func fetch(ctx context.Context, cfg *Config, logger *zerolog.Logger, out io.Writer) error {
	client, err := rawhttp.NewClient(cfg.URL, rawhttp.Options{
		Timeout:     cfg.Timeout,
		ConnTimeout: cfg.ConnTimeout,
		VerifyTLS:   cfg.VerifyTLS,
		DisableSNI:  cfg.NoSNI,
		ProxyURL:    cfg.Proxy,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	client.SetHeader("User-Agent", version.UserAgent())
	client.SetHeader("Accept", "*/*")
	if cfg.Data != "" {
		client.SetHeader("Content-Length", strconv.Itoa(len(cfg.Data)))
	}
	for _, h := range cfg.Headers {
		name, value, err := parseHeader(h)
		if err != nil {
			return err
		}
		client.SetHeader(name, value)
	}

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect()

	var body []byte
	if cfg.Data != "" {
		body = []byte(cfg.Data)
	}

	resp, err := client.Do(ctx, cfg.Method, client.Target().Path, body)
	if err != nil {
		return err
	}

	return printResponse(out, resp, cfg)
}

func printResponse(out io.Writer, resp *response.Response, cfg *Config) error {
	if cfg.Include {
		fmt.Fprintf(out, "HTTP %d\n", resp.StatusCode)
		names := make([]string, 0, len(resp.Headers))
		for name := range resp.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%s: %s\n", name, resp.Headers.GetString(name))
		}
		fmt.Fprintln(out)
	}

	if resp.Method() == "HEAD" {
		return nil
	}

	if cfg.Decode {
		decoded, err := resp.DecodedBody()
		if err != nil {
			return errors.Wrap(err, "decoding body")
		}
		_, err = out.Write(decoded)
		return err
	}

	text, err := resp.Text(cfg.Encoding)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}
