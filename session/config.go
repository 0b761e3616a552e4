// Copyright (c) 2024 Neomantra Corp

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/quantfeed/lsg-go"
)

const (
	ApiKeyEnvVar    = "DATABENTO_API_KEY"
	ClientEnvVar    = "DATABENTO_CLIENT"
	ApiKeyLength    = 32
	BucketIDLength  = 5
	DefaultRcvBytes = 64 * 1024 * 1024
	ClientVersion   = "0.1.0"
)

// Config configures a single session's connection and handshake.
type Config struct {
	Logger *slog.Logger

	ApiKey  string
	Dataset string
	Client  string

	// SendTsOut requests ts_out on every record during authentication.
	SendTsOut bool

	// RcvBufBytes is the SO_RCVBUF floor requested at connect time.
	// Defaults to DefaultRcvBytes (64 MiB) if zero.
	RcvBufBytes int

	Verbose bool
}

// SetFromEnv fills in ApiKey and, if unset, Client from the environment.
func (c *Config) SetFromEnv() error {
	apiKey := os.Getenv(ApiKeyEnvVar)
	if apiKey == "" {
		return fmt.Errorf("expected environment variable %s to be set", ApiKeyEnvVar)
	}
	c.ApiKey = apiKey

	if c.Client == "" {
		c.Client = os.Getenv(ClientEnvVar)
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.ApiKey) == 0 {
		return errors.New("field ApiKey is unset")
	}
	if len(c.ApiKey) != ApiKeyLength {
		return fmt.Errorf("field ApiKey must contain %d characters", ApiKeyLength)
	}
	if len(c.Dataset) == 0 {
		return errors.New("field Dataset is unset")
	}
	if _, err := lsg.DatasetFromString(c.Dataset); err != nil {
		return fmt.Errorf("field Dataset: %w", err)
	}
	return nil
}
