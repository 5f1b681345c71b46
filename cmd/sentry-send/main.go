// sentry-send submits a single event from the command line. It is useful
// for wiring shell scripts and cron jobs into crash reporting, and for
// verifying a DSN end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kmastore-id/sentry/pkg/sentry"
)

func main() {
	var (
		message  = flag.String("message", "", "message to report (required)")
		level    = flag.String("level", "info", "severity: debug, info, warning, error, fatal")
		envFile  = flag.String("env-file", "", "dotenv file to load before reading the environment")
		compress = flag.Bool("compress", false, "gzip the payload")
		timeout  = flag.Duration("timeout", 10*time.Second, "submission timeout")
	)
	flag.Parse()

	if *message == "" {
		flag.Usage()
		os.Exit(2)
	}

	severity, err := parseLevel(*level)
	if err != nil {
		log.Fatalf("sentry-send: %v", err)
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		log.Fatalf("sentry-send: %v", err)
	}

	opts := []sentry.ClientOption{
		sentry.WithDefaults(sentry.Event{
			ServerName:  cfg.serverName,
			Environment: cfg.environment,
			Release:     cfg.release,
		}),
		sentry.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
	}
	if *compress {
		opts = append(opts, sentry.WithCompression())
	}

	client, err := sentry.NewClient(cfg.dsn, opts...)
	if err != nil {
		log.Fatalf("sentry-send: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	id, err := client.Capture(ctx, sentry.Event{
		Message: *message,
		Level:   severity,
	})
	if err != nil {
		log.Fatalf("sentry-send: %v", err)
	}
	fmt.Println(id)
}

// config holds everything read from the environment.
type config struct {
	dsn         string
	serverName  string
	environment string
	release     string
}

// loadConfig reads the environment, optionally seeded from a dotenv file.
// SENTRY_DSN is required; the deployment fields are optional.
func loadConfig(envFile string) (*config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &config{
		dsn:         os.Getenv("SENTRY_DSN"),
		environment: os.Getenv("SENTRY_ENVIRONMENT"),
		release:     os.Getenv("SENTRY_RELEASE"),
	}
	if cfg.dsn == "" {
		return nil, fmt.Errorf("SENTRY_DSN is required")
	}
	if hostname, err := os.Hostname(); err == nil {
		cfg.serverName = hostname
	}
	return cfg, nil
}

func parseLevel(s string) (sentry.Severity, error) {
	switch s {
	case "debug":
		return sentry.SeverityDebug, nil
	case "info":
		return sentry.SeverityInfo, nil
	case "warning":
		return sentry.SeverityWarning, nil
	case "error":
		return sentry.SeverityError, nil
	case "fatal":
		return sentry.SeverityFatal, nil
	default:
		return "", fmt.Errorf("unknown level %q", s)
	}
}
