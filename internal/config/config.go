package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ytrim/internal/dirs"
	"ytrim/internal/model"
)

// Viper keys.
const (
	KeyDLBinary         = "dl_binary"
	KeyFFmpegBinary     = "ffmpeg_binary"
	KeyVerbose          = "verbose"
	KeyNoUI             = "no_ui"
	KeyMaxBitrate       = "max_bitrate"
	KeyKeepIntermediate = "keep_intermediate"
)

// flagKeys maps root persistent flag names to their Viper keys.
var flagKeys = map[string]string{
	"dl-binary":         KeyDLBinary,
	"ffmpeg-binary":     KeyFFmpegBinary,
	"verbose":           KeyVerbose,
	"no-ui":             KeyNoUI,
	"max-bitrate":       KeyMaxBitrate,
	"keep-intermediate": KeyKeepIntermediate,
}

// Settings are the values that may come from a flag, the environment or
// the config file.
type Settings struct {
	DLBinary         string
	FFmpegBinary     string
	Verbose          bool
	NoUI             bool
	MaxBitrateMbps   int
	KeepIntermediate bool
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: a missing config file is not an error, a malformed one is.
func Init(root *cobra.Command) error {
	return initViper(viper.GetViper(), root)
}

func initViper(v *viper.Viper, root *cobra.Command) error {
	if cfgDir, err := dirs.ConfigDir(); err == nil {
		v.AddConfigPath(cfgDir)
	}
	v.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: YTRIM_*
	v.SetEnvPrefix("YTRIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyMaxBitrate, model.DefaultMaxBitrateMbps)

	for name, key := range flagKeys {
		if f := root.PersistentFlags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

// FileUsed returns the config file Viper loaded, or "" when none was found.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// Current returns the effective settings (flag > env > config > default).
func Current() Settings {
	return load(viper.GetViper())
}

func load(v *viper.Viper) Settings {
	s := Settings{
		DLBinary:         v.GetString(KeyDLBinary),
		FFmpegBinary:     v.GetString(KeyFFmpegBinary),
		Verbose:          v.GetBool(KeyVerbose),
		NoUI:             v.GetBool(KeyNoUI),
		MaxBitrateMbps:   v.GetInt(KeyMaxBitrate),
		KeepIntermediate: v.GetBool(KeyKeepIntermediate),
	}
	if s.MaxBitrateMbps <= 0 {
		s.MaxBitrateMbps = model.DefaultMaxBitrateMbps
	}
	return s
}
