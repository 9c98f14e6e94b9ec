// This file maps the CLI context to the config struct.

package launcher

import (
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-exi-asset/channel"
	"github.com/rony4d/go-exi-asset/presets"
)

// Config aggregates every setting a command needs.
type Config struct {
	Codec    presets.PresetConfig
	Datatype DatatypeConfig
	Logging  LoggingConfig
}

type DatatypeConfig struct {
	Type    string
	Pattern string
	Count   int
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

func defaultConfig() Config {
	def := DefaultConfig()
	layout, err := presets.GetPresetByName(def.Codec.Preset)
	if err != nil {
		layout = presets.DefaultPreset()
	}
	return Config{
		Codec: layout,
		Datatype: DatatypeConfig{
			Type:    def.Datatype.Type,
			Pattern: def.Datatype.Pattern,
			Count:   def.Datatype.Count,
		},
		Logging: LoggingConfig{
			Verbosity: def.Logging.Verbosity,
			Format:    def.Logging.Format,
			Color:     def.Logging.Color,
			SentryDSN: def.Logging.SentryDSN,
		},
	}
}

// MakeAllConfigs merges defaults and CLI overrides into a single config
// struct. Flags are looked up on the command first and then globally.

func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()
	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// CLI wiring
// -----------------------------------------------------------------------------

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	// The preset goes first so explicit layout flags refine it.
	if isSet(ctx, "preset") {
		preset, err := presets.GetPresetByName(stringFlag(ctx, "preset"))
		if err != nil {
			return errors.Wrap(err, "--preset")
		}
		presets.ApplyPreset(&cfg.Codec, preset)
	}
	if isSet(ctx, "alignment") {
		a, err := channel.ParseAlignment(stringFlag(ctx, "alignment"))
		if err != nil {
			return errors.Wrap(err, "--alignment")
		}
		cfg.Codec.Alignment = a
	}
	if isSet(ctx, "compression") {
		c, err := channel.ParseCompression(stringFlag(ctx, "compression"))
		if err != nil {
			return errors.Wrap(err, "--compression")
		}
		// a level only means something to the codec it was picked for
		if c != cfg.Codec.Compression {
			cfg.Codec.CompressionLevel = channel.DefaultCompressionLevel
		}
		cfg.Codec.Compression = c
	}
	if isSet(ctx, "compression.level") {
		cfg.Codec.CompressionLevel = intFlag(ctx, "compression.level")
	}

	if isSet(ctx, "type") {
		cfg.Datatype.Type = stringFlag(ctx, "type")
	}
	if isSet(ctx, "pattern") {
		cfg.Datatype.Pattern = stringFlag(ctx, "pattern")
	}
	if isSet(ctx, "count") {
		cfg.Datatype.Count = intFlag(ctx, "count")
		if cfg.Datatype.Count < 1 {
			return errors.Errorf("--count must be positive, got %d", cfg.Datatype.Count)
		}
	}

	if isSet(ctx, "log.format") {
		cfg.Logging.Format = stringFlag(ctx, "log.format")
	}
	if isSet(ctx, "log.verbosity") {
		cfg.Logging.Verbosity = intFlag(ctx, "log.verbosity")
	}
	if isSet(ctx, "log.color") {
		cfg.Logging.Color = ctx.Bool("log.color") || ctx.GlobalBool("log.color")
	}
	if isSet(ctx, "log.sentry") {
		cfg.Logging.SentryDSN = stringFlag(ctx, "log.sentry")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func isSet(ctx *cli.Context, name string) bool {
	return ctx.IsSet(name) || ctx.GlobalIsSet(name)
}

func stringFlag(ctx *cli.Context, name string) string {
	if ctx.IsSet(name) {
		return ctx.String(name)
	}
	return ctx.GlobalString(name)
}

func intFlag(ctx *cli.Context, name string) int {
	if ctx.IsSet(name) {
		return ctx.Int(name)
	}
	return ctx.GlobalInt(name)
}
