// Package config binds the CLI/service's global flags via
// github.com/spf13/viper and github.com/spf13/pflag, grounded on
// shivamshaw23-Hintro's viper-based config and xentoshi-lake's pflag usage.
// Core packages never import viper themselves — they take plain Go structs,
// matching the teacher's "core takes typed input structs" style — this
// package exists purely to translate flags/env into those structs at the
// driver boundary.
package config

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Global holds the process-wide flags shared by every subcommand.
type Global struct {
	CachePrefix  string
	ForceRebuild bool
	NumThreads   int
	Verbose      bool
}

// RegisterGlobalFlags attaches the global flag set to fs and binds it into v
// with ISOCHRONEGO_-prefixed environment variable fallback.
func RegisterGlobalFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.String("cache-prefix", "./.isochronego-cache", "directory for content-addressed cache files")
	fs.Bool("force-rebuild", false, "ignore cached results and recompute")
	fs.Int("num-threads", 0, "worker budget (0 = all available cores)")
	fs.Bool("verbose", false, "enable info-level phase logging")

	v.SetEnvPrefix("ISOCHRONEGO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(fs)
}

// LoadGlobal reads the bound flags out of v into a Global. A num-threads
// value of 0 (or below) is resolved to runtime.NumCPU().
func LoadGlobal(v *viper.Viper) Global {
	numThreads := v.GetInt("num-threads")
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	return Global{
		CachePrefix:  v.GetString("cache-prefix"),
		ForceRebuild: v.GetBool("force-rebuild"),
		NumThreads:   numThreads,
		Verbose:      v.GetBool("verbose"),
	}
}
