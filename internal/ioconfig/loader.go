// Package ioconfig reads config.yaml and GNVARIANTS_* environment
// variables into a config.Config. Precedence from highest to lowest:
// flags (applied later by the CLI), environment, config file, defaults.
package ioconfig

import (
	"strings"

	"github.com/gnames/gnvariants/internal/iofs"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables.
const EnvPrefix = "GNVARIANTS"

// envKeys are config keys that can be set from the environment. Nested
// keys use underscores: database.host is GNVARIANTS_DATABASE_HOST.
var envKeys = []string{
	"database.driver",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",
	"database.path",
	"database.batch_size",

	"cache.driver",
	"cache.dir",
	"cache.bucket",
	"cache.region",
	"cache.endpoint",
	"cache.access_key",
	"cache.secret_key",
	"cache.path_style",
	"cache.fanout",

	"import.ignore_errors",
	"import.paranoid",
	"import.fail_dir",
	"import.band",

	"log.level",
	"log.format",
	"log.destination",

	"jobs_number",
}

// Load reads the config file of homeDir and environment overrides. The
// file must exist, iofs.EnsureConfigFile creates a default one.
func Load(homeDir string) (*config.Config, error) {
	cfgPath := config.ConfigFilePath(homeDir)
	v := viper.New()
	v.SetConfigFile(cfgPath)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var fromFile config.Config
	if err := v.Unmarshal(&fromFile); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	res := config.New()
	res.Update(fromFile.ToOptions())
	res.Update([]config.Option{config.OptHomeDir(homeDir)})
	return res, nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	v.AutomaticEnv()
}
