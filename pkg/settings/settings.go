// Package settings liest die Crash-Konfiguration und die Programm-Metadaten
// aus viper.
package settings

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"humanpanic/pkg/crash"
)

// Konfigurationsschlüssel
const (
	KeyLogFile      = "log_file"
	KeyMode         = "mode"
	KeyBacktraceEnv = "backtrace_env"
	KeyColor        = "color"
	KeySkipFrames   = "skip_frames"
	KeyMaxDepth     = "max_depth"
	KeyCrashOutput  = "crash_output"
	KeyMaxSizeMB    = "rotate.max_size_mb"
	KeyMaxBackups   = "rotate.max_backups"
	KeyMaxAgeDays   = "rotate.max_age_days"
	KeyCompress     = "rotate.compress"

	KeyName     = "name"
	KeyVersion  = "version"
	KeyAuthors  = "authors"
	KeyHomepage = "homepage"
)

// SetDefaults trägt die Standardwerte in v ein
func SetDefaults(v *viper.Viper) {
	def := crash.DefaultConfig()
	v.SetDefault(KeyLogFile, def.LogPath)
	v.SetDefault(KeyMode, string(def.Mode))
	v.SetDefault(KeyBacktraceEnv, def.BacktraceEnv)
	v.SetDefault(KeyColor, string(def.Color))
	v.SetDefault(KeySkipFrames, def.SkipFrames)
	v.SetDefault(KeyMaxDepth, def.MaxDepth)
	v.SetDefault(KeyCrashOutput, false)
}

// Load baut Config und Metadata aus v. Ungültige Werte sind ein Fehler.
func Load(v *viper.Viper) (crash.Config, crash.Metadata, error) {
	cfg := crash.DefaultConfig()

	mode, err := crash.ParseMode(v.GetString(KeyMode))
	if err != nil {
		return cfg, crash.Metadata{}, errors.Wrap(err, KeyMode)
	}
	color, err := crash.ParseColorChoice(v.GetString(KeyColor))
	if err != nil {
		return cfg, crash.Metadata{}, errors.Wrap(err, KeyColor)
	}

	if p := v.GetString(KeyLogFile); p != "" {
		cfg.LogPath = p
	}
	cfg.Mode = mode
	cfg.Color = color
	if v.IsSet(KeyBacktraceEnv) {
		cfg.BacktraceEnv = v.GetString(KeyBacktraceEnv)
	}
	if v.IsSet(KeySkipFrames) {
		cfg.SkipFrames = v.GetInt(KeySkipFrames)
	}
	if d := v.GetInt(KeyMaxDepth); d > 0 {
		cfg.MaxDepth = d
	}
	cfg.CrashOutput = v.GetBool(KeyCrashOutput)
	cfg.Rotation = crash.Rotation{
		MaxSizeMB:  v.GetInt(KeyMaxSizeMB),
		MaxBackups: v.GetInt(KeyMaxBackups),
		MaxAgeDays: v.GetInt(KeyMaxAgeDays),
		Compress:   v.GetBool(KeyCompress),
	}

	meta := crash.Metadata{
		Name:     v.GetString(KeyName),
		Version:  v.GetString(KeyVersion),
		Authors:  crash.NormalizeAuthors(v.GetString(KeyAuthors)),
		Homepage: v.GetString(KeyHomepage),
	}

	return cfg, meta, cfg.Validate()
}
