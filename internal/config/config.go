// Package config loads czar.toml, the optional project configuration file
// that tunes pass behavior and the transpile-cache server (SPEC_FULL.md
// §A.3). It follows the teacher's internal/tqw pattern of a thin
// BurntSushi/toml-decoded struct plus a loader that tolerates absence.
package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings is the decoded contents of czar.toml. Every field has a
// built-in default applied by Default, so an absent file is not an error.
type Settings struct {
	Build  BuildSettings  `toml:"build"`
	Server ServerSettings `toml:"server"`
}

// BuildSettings is czar.toml's [build] table.
type BuildSettings struct {
	// Debug is the initial value of pragma_ctx.debug_mode before any
	// `#pragma czar debug(...)` is seen.
	Debug bool `toml:"debug"`

	// ForbidFatal names forbidden-API identifiers (spec.md §4.2.1) to
	// escalate from warning to error, in addition to those already fatal
	// by default.
	ForbidFatal []string `toml:"forbid_fatal"`

	// TargetStd is emitted as a comment in the runtime preamble.
	TargetStd string `toml:"target_std"`
}

// ServerSettings is czar.toml's [server] table, consumed by cmd/czar's
// server subcommand rather than by the transpile pipeline itself.
type ServerSettings struct {
	// CacheDSN is the data source name for the transpile-cache store.
	CacheDSN string `toml:"cache_dsn"`

	// JWTSecretEnv names the environment variable holding the server's
	// JWT signing secret.
	JWTSecretEnv string `toml:"jwt_secret_env"`
}

// Default returns the built-in configuration used when no czar.toml is
// present: debug mode on, the default forbidden-fatal set from
// spec.md §4.2.1, target_std "c11".
func Default() Settings {
	return Settings{
		Build: BuildSettings{
			Debug:       true,
			ForbidFatal: []string{"gets", "tmpnam", "mktemp"},
			TargetStd:   "c11",
		},
		Server: ServerSettings{
			CacheDSN:     "file:czar-cache.db",
			JWTSecretEnv: "CZAR_SERVER_SECRET",
		},
	}
}

// Load reads czar.toml from path. A missing file is not an error: Default
// is returned unmodified. A present-but-malformed file is an error.
func Load(path string) (Settings, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	// decode over the defaults so a file that only overrides some keys
	// keeps the rest of the built-in values.
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}
