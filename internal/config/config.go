// Package config decodes and validates the orchestrator's run
// configuration: CLI flags and any on-disk config file are collapsed
// into a plain map[string]any first, then mapstructure decodes it into
// Config and govalidator checks the result, the same
// decode-then-validate split the teacher's dependency tree pulls in via
// go-openapi/strfmt and asaskevich/govalidator (previously indirect,
// unused; wired here directly instead of dropped).
package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/go-openapi/strfmt"
	"github.com/mitchellh/mapstructure"
)

// StoreKind selects which store.Store backend a run uses.
type StoreKind string

const (
	StoreMem   StoreKind = "mem"
	StoreMongo StoreKind = "mongo"
)

// Config is the fully-resolved, validated set of knobs shared by the
// search, clean, and curate subcommands (spec.md section 6).
type Config struct {
	DataDir      string          `mapstructure:"data_dir" valid:"required"`
	Store        StoreKind       `mapstructure:"store" valid:"in(mem|mongo)"`
	MongoURI     string          `mapstructure:"mongo_uri"`
	Workers      int             `mapstructure:"workers" valid:"range(1|1024)"`
	SaveInterval int             `mapstructure:"save_interval" valid:"range(1|1000000000)"`
	LogInterval  int             `mapstructure:"log_interval" valid:"range(1|1000000000)"`
	BatchSize    int             `mapstructure:"batch_size" valid:"range(1|1000000000)"`
	HelperTimeout strfmt.Duration `mapstructure:"helper_timeout"`
	Fresh        bool            `mapstructure:"fresh"`
}

// Decode turns a raw map (flag values keyed by their mapstructure tag
// name) into a validated Config. WeaklyTypedInput lets flag values that
// arrive as strings (e.g. from a config file) decode into int/bool
// fields without the caller pre-converting them.
func Decode(raw map[string]any) (*Config, error) {
	cfg := Config{
		Store:         StoreMem,
		Workers:       1,
		SaveInterval:  10000,
		LogInterval:   1000,
		BatchSize:     100,
		HelperTimeout: strfmt.Duration(5 * time.Minute),
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToStrfmtDurationHook(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("config: build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags via govalidator and returns a wrapped
// error describing every violation.
func Validate(cfg *Config) error {
	if cfg.Store == StoreMongo && cfg.MongoURI == "" {
		return fmt.Errorf("config: mongo_uri is required when store=mongo")
	}
	ok, err := govalidator.ValidateStruct(cfg)
	if !ok {
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		return fmt.Errorf("config: validation failed")
	}
	return nil
}

// stringToStrfmtDurationHook converts a duration string (e.g. "5m")
// into strfmt.Duration, which mapstructure's built-in time.Duration hook
// does not recognize because it is a distinct named type.
func stringToStrfmtDurationHook() mapstructure.DecodeHookFunc {
	target := reflect.TypeOf(strfmt.Duration(0))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != target {
			return data, nil
		}
		d, err := time.ParseDuration(data.(string))
		if err != nil {
			return nil, fmt.Errorf("config: parse duration: %w", err)
		}
		return strfmt.Duration(d), nil
	}
}
