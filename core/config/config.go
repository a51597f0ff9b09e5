package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"contest-sync/core/database"
	"contest-sync/core/logger"
	"contest-sync/core/server"
	"contest-sync/core/storage"
	"contest-sync/feature/contest"
	"contest-sync/feature/contest/upstream"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the snapshot object storage.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Sync holds the cycle intervals and provider selection.
	Sync contest.SyncConfig `mapstructure:"sync"`
	// Upstream holds the provider endpoints and HTTP client settings.
	Upstream upstream.Config `mapstructure:"upstream"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_FULL_INTERVAL -> sync.full_interval)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports every configuration problem that prevents the service from running.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.CheckEnvironment(); err != nil {
		errs = append(errs, err)
	}
	if !c.Database.IsValidDriver() {
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if err := c.Sync.Validate(); err != nil {
		errs = append(errs, err)
	}
	enabled := c.Upstream.ProviderNames()
	for _, p := range slices.Concat(c.Sync.Providers, c.Sync.KeepaliveProviders) {
		if !slices.Contains(enabled, p) {
			errs = append(errs, fmt.Errorf("provider %q is not configured", p))
		}
	}
	if c.Sync.ArchiveSnapshots && !c.Storage.Enabled {
		errs = append(errs, errors.New("sync.archive_snapshots requires storage.enabled"))
	}

	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// time.Duration is an int64, only plain structs are sections
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
