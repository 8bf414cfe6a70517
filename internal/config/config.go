// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "stagehand"
	// EnvPrefix prefixes environment variable overrides, e.g.
	// STAGEHAND_INSTALLER_HOSTNAME.
	EnvPrefix = "STAGEHAND"

	schemaDefinition = "#Config"
)

//go:embed config_schema.cue
var configSchema []byte

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// Path is the document to load. Required.
		Path string
		// DeviceDir overrides DefaultDeviceDir when set.
		DeviceDir string
		// Tasks, when set, is used to reject unknown task names.
		Tasks TaskLookup
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// ErrUnsupportedFormat is returned for a document extension Load cannot read.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// NewProvider creates a configuration provider reading from disk.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads the requested document.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return Load(ctx, opts)
}

// Load reads, validates and resolves the document at opts.Path.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if opts.Path == "" {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithSuggestion("Pass the document with --config FILE").
			WithSuggestion("Run 'stagehand default-config' to print a template").
			Wrap(fmt.Errorf("%w: no configuration file given", issue.ErrInvalidConfig)).
			BuildError()
	}

	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, issue.IOFailure("resolve "+opts.Path, err)
	}

	values, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	v := newViper()
	if err := v.MergeConfigMap(values); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, invalid(path, "Check that every value has the type shown by 'stagehand default-config'", fmt.Errorf("%w: %w", issue.ErrInvalidConfig, err))
	}
	cfg.Path = path

	if err := cfg.resolve(opts); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newViper returns a Viper with defaults for every optional key so that
// environment overrides apply to them as well.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("installer.hostname", DefaultHostname)
	v.SetDefault("installer.timezone", DefaultTimezone)
	v.SetDefault("installer.mount_point", DefaultMountPoint)
	v.SetDefault("installer.http_proxy", "")
	v.SetDefault("user.name", "")
	v.SetDefault("user.full_name", "")
	v.SetDefault("user.email", "")
	return v
}

// readDocument decodes the file at path into a generic map validated
// against the #Config schema. Non-CUE encodings are parsed by Viper and
// re-validated as JSON, which is a subset of CUE.
func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			Wrap(issue.IOFailure("read "+path, err)).
			BuildError()
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "cue":
	case "yaml", "yml", "toml", "json":
		if data, err = toJSON(path, ext); err != nil {
			return nil, invalid(path, "Check the file syntax", fmt.Errorf("%w: %w", issue.ErrInvalidConfig, err))
		}
	default:
		return nil, invalid(path, "Use one of the .cue, .yaml, .toml or .json extensions",
			fmt.Errorf("%w: %w %q", issue.ErrInvalidConfig, ErrUnsupportedFormat, filepath.Ext(path)))
	}

	values, err := cueutil.DecodeMap(configSchema, data, schemaDefinition, cueutil.WithFilename(path))
	if err != nil {
		return nil, invalid(path, "Compare the document with 'stagehand default-config'", fmt.Errorf("%w: %w", issue.ErrInvalidConfig, err))
	}
	return values, nil
}

func toJSON(path, ext string) ([]byte, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if ext == "yml" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return json.Marshal(v.AllSettings())
}

func invalid(path, suggestion string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion(suggestion).
		Wrap(err).
		BuildError()
}
