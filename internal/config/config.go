package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Apply holds configuration for the apply command, merged from flags,
// LEDGER_* environment variables, and an optional config file.
type Apply struct {
	In           string
	Events       string
	PositionsOut string
	PGDSN        string
	StateFile    string
	StateEnabled bool
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadApply merges config file, environment variables, and flags.
func LoadApply(cfgFile string, flags *pflag.FlagSet) (Apply, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Apply{}, err
	}

	v.SetDefault("events", "./data/events.jsonl")
	v.SetDefault("positions-out", "./data/positions.jsonl")
	v.SetDefault("state-file", "./data/state.json")
	v.SetDefault("state-enabled", true)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	return Apply{
		In:           v.GetString("in"),
		Events:       v.GetString("events"),
		PositionsOut: v.GetString("positions-out"),
		PGDSN:        v.GetString("pg-dsn"),
		StateFile:    v.GetString("state-file"),
		StateEnabled: v.GetBool("state-enabled"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}

// Position holds configuration for the position lookup command.
type Position struct {
	PGDSN     string
	Token0    string
	Token1    string
	Fee       uint32
	Owner     string
	TickLower int32
	TickUpper int32
	LogLevel  string
}

// LoadPosition merges config file, environment variables, and flags.
func LoadPosition(cfgFile string, flags *pflag.FlagSet) (Position, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Position{}, err
	}

	v.SetDefault("log-level", "info")

	return Position{
		PGDSN:     v.GetString("pg-dsn"),
		Token0:    v.GetString("token0"),
		Token1:    v.GetString("token1"),
		Fee:       v.GetUint32("fee"),
		Owner:     v.GetString("owner"),
		TickLower: v.GetInt32("tick-lower"),
		TickUpper: v.GetInt32("tick-upper"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
