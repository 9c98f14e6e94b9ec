package presets

import (
	"fmt"

	"github.com/rony4d/go-exi-asset/channel"
)

// Package presets bundles stream layout settings (alignment, compression,
// compression level) into named profiles so callers can pick a trade-off
// between size and speed without setting every flag.
//
// Usage:
//   cfg := presets.FastPreset()    // byte-aligned, uncompressed
//   cfg := presets.CompactPreset() // bit-packed, deflate
//   cfg := presets.ArchivePreset() // byte-aligned, zstd at a high level
//
// Each preset returns a PresetConfig that the launcher merges into its config
// before explicit flags are applied.

// PresetConfig captures the parameters that vary across preset profiles.
type PresetConfig struct {
	Name             string              // identifier accepted by --preset
	Alignment        channel.Alignment   // channel layout of the value stream
	Compression      channel.Compression // post-processing of the finished stream
	CompressionLevel int                 // codec level; -1 picks the codec default
}

func DefaultPreset() PresetConfig {

	return PresetConfig{
		Name:             "default",
		Alignment:        channel.BitPacked,       // smallest uncompressed form
		Compression:      channel.CompressionNone, // values are usually short
		CompressionLevel: channel.DefaultCompressionLevel,
	}
}

// FastPreset keeps every primitive on an octet boundary and skips
// compression. Streams are larger but cheap to produce and inspect.
func FastPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "fast"
	cfg.Alignment = channel.ByteAligned
	return cfg
}

// CompactPreset packs bits and deflates the result, the EXI compression
// option.
func CompactPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "compact"
	cfg.Compression = channel.CompressionDeflate
	cfg.CompressionLevel = 9
	return cfg
}

// ArchivePreset lays primitives out on octets and compresses them with zstd at
// a high level, for streams stored long term. Both ends must be this
// implementation.
func ArchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "archive"
	cfg.Alignment = channel.ByteAligned
	cfg.Compression = channel.CompressionZstd
	cfg.CompressionLevel = 19
	return cfg
}

// GetPresetByName looks up a preset by its identifier.
//
// Example:
//
//	preset, err := presets.GetPresetByName("compact")
//	if err != nil {
//	    return err
//	}
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "fast":
		return FastPreset(), nil
	case "compact":
		return CompactPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: fast, compact, archive, default)", name)
	}
}

// ApplyPreset merges preset into target. Every layout field is applied; the
// name is kept when the preset has none.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	target.Alignment = preset.Alignment
	target.Compression = preset.Compression
	target.CompressionLevel = preset.CompressionLevel
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
