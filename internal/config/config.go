// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the settings of the shouldmatch command from
// command-line flags, SHOULDMATCH_ prefixed environment variables and an
// optional configuration file.  Given flags take precedence over the
// environment which takes precedence over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/slukits/shouldmatch/internal/log"
	"github.com/slukits/shouldmatch/pkg/gen"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overwriting configuration
// file settings, e.g. SHOULDMATCH_LOG_LEVEL=verbose.
const EnvPrefix = "SHOULDMATCH"

// ErrConfig is wrapped by errors of invalid settings.
var ErrConfig = errors.New("config: invalid setting")

// Config are the settings of a generator run.
type Config struct {

	// Dirs are the directories to generate in; a directory ending in
	// /... stands for its whole tree.
	Dirs []string

	// Tag is the build tag marking annotated sources.
	Tag string

	// Suffix names generated files.
	Suffix string

	// Watch keeps regenerating on changes.
	Watch bool

	// Interval is the quiet period of watch mode.
	Interval time.Duration

	Log struct {
		Level log.Level
	}
}

type rawConfig struct {
	Tag      string        `mapstructure:"tag"`
	Suffix   string        `mapstructure:"suffix"`
	Watch    bool          `mapstructure:"watch"`
	Interval time.Duration `mapstructure:"interval"`

	ConfigFile string `mapstructure:"config-file"`

	Log struct {
		Level logLevelValue `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load parses given command-line arguments whose first element is the
// program's path.  Usage information goes to given writer.  A request
// for help is reported by [pflag.ErrHelp].
func Load(args []string, usage io.Writer) (*Config, error) {
	progName := programName(args)
	flags := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	flags.SetOutput(usage)
	flags.Usage = func() {
		fmt.Fprintf(usage, "Usage:\n")
		fmt.Fprintf(usage, "  %v [options] [dir | dir/...]...\n\n", progName)
		fmt.Fprintf(usage, "Options:\n")
		flags.PrintDefaults()
	}
	if err := parseFlags(flags, args); err != nil {
		return nil, err
	}

	raw, err := parseRawConfig(flags)
	if err != nil {
		return nil, err
	}
	c := raw.toConfig()
	c.Dirs = flags.Args()
	if len(c.Dirs) == 0 {
		c.Dirs = []string{"."}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseFlags(f *pflag.FlagSet, args []string) error {
	f.String("tag", gen.DefaultTag, "build `tag` marking annotated sources")
	f.String("suffix", gen.DefaultSuffix, "`suffix` naming generated files")
	f.BoolP("watch", "w", false, "regenerate on changes until interrupted")
	f.Duration("interval", gen.DefaultInterval,
		"quiet `period` before regenerating in watch mode")

	logLevel := logLevelValue(log.Info)
	f.Var(&logLevel, "log-level",
		"`level` of logging: silent, error, info or verbose")

	f.String("config-file", "", "optional YAML configuration `file`")

	if len(args) > 0 {
		args = args[1:]
	}
	if err := f.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

func parseRawConfig(f *pflag.FlagSet) (*rawConfig, error) {
	v := viper.New()

	for _, name := range []string{
		"tag", "suffix", "watch", "interval", "log.level", "config-file",
	} {
		kebabCasedName := strings.ReplaceAll(name, ".", "-")
		if err := v.BindPFlag(name, f.Lookup(kebabCasedName)); err != nil {
			return nil, fmt.Errorf("bind flag: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config-file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
	}

	options := []viper.DecoderConfigOption{
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		)),

		func(c *mapstructure.DecoderConfig) {
			c.IgnoreUntaggedFields = true
		},
	}

	var config rawConfig
	if err := v.UnmarshalExact(&config, options...); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return &config, nil
}

func (c *rawConfig) toConfig() *Config {
	config := Config{
		Tag:      c.Tag,
		Suffix:   c.Suffix,
		Watch:    c.Watch,
		Interval: c.Interval,
	}
	config.Log.Level = log.Level(c.Log.Level)
	return &config
}

func (c *Config) validate() error {
	switch {
	case c.Tag == "":
		return fmt.Errorf("%w: empty tag", ErrConfig)
	case !strings.HasSuffix(c.Suffix, "_test.go"):
		return fmt.Errorf("%w: suffix %q must end in _test.go",
			ErrConfig, c.Suffix)
	case c.Interval <= 0:
		return fmt.Errorf("%w: non-positive interval %v", ErrConfig,
			c.Interval)
	}
	return nil
}

func programName(args []string) string {
	if len(args) == 0 {
		return "shouldmatch"
	}
	progPath := args[0]
	return strings.TrimSuffix(
		filepath.Base(progPath),
		filepath.Ext(progPath),
	)
}

type logLevelValue log.Level

func (v *logLevelValue) Set(s string) error {
	return (*log.Level)(v).UnmarshalText([]byte(s))
}

func (v *logLevelValue) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

func (v *logLevelValue) String() string {
	return (*log.Level)(v).String()
}

func (v *logLevelValue) Type() string {
	return "level"
}
