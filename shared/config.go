// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package shared

import (
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Dialect string

const (
	DialectPostgres  Dialect = "postgres"
	DialectSQLite    Dialect = "sqlite"
	DialectMySQL     Dialect = "mysql"
	DialectSQLServer Dialect = "sqlserver"
)

type ResolverMode string

const (
	// ResolverCTE computes project closures with the store's recursive query support.
	ResolverCTE ResolverMode = "cte"
	// ResolverBFS expands the hierarchy level by level in process.
	ResolverBFS ResolverMode = "bfs"
)

type Config struct {
	Environment string `mapstructure:"environment"`
	SentryDSN   string `mapstructure:"sentry_dsn"`

	Database       DatabaseConfig       `mapstructure:"database"`
	ACL            ACLConfig            `mapstructure:"acl"`
	RepositoryMeta RepositoryMetaConfig `mapstructure:"repository_meta"`
}

type DatabaseConfig struct {
	Dialect Dialect `mapstructure:"dialect" validate:"oneof=postgres sqlite mysql sqlserver"`
	// DSN is used by every dialect but postgres, which is configured with the POSTGRES_* variables.
	DSN         string        `mapstructure:"dsn"`
	AutoMigrate bool          `mapstructure:"auto_migrate"`
	Tracing     bool          `mapstructure:"tracing"`
	SlowQuery   time.Duration `mapstructure:"slow_query"`
}

type ACLConfig struct {
	Enabled  bool         `mapstructure:"enabled"`
	Resolver ResolverMode `mapstructure:"resolver" validate:"oneof=cte bfs"`
}

type RepositoryMetaConfig struct {
	CacheSize int           `mapstructure:"cache_size" validate:"gte=1"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("environment", "dev")
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("database.dialect", string(DialectPostgres))
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.tracing", false)
	v.SetDefault("database.slow_query", "200ms")
	v.SetDefault("acl.enabled", true)
	v.SetDefault("acl.resolver", string(ResolverCTE))
	v.SetDefault("repository_meta.cache_size", 4096)
	v.SetDefault("repository_meta.cache_ttl", "10m")
}

// NewConfig reads the configuration from DEVGUARD_FINDINGS_* environment variables
// and, if configFile is not empty, from that file (toml, yaml or json).
func NewConfig(configFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEVGUARD_FINDINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setConfigDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "could not read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return Config{}, errors.Wrap(err, "could not decode config")
	}

	if err := V.Struct(cfg); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
