package config

import (
	"reflect"
	"strings"

	"github.com/chafiq1992/shopify-to-sheets/core/cities"
	"github.com/chafiq1992/shopify-to-sheets/core/journal"
	"github.com/chafiq1992/shopify-to-sheets/core/logger"
	"github.com/chafiq1992/shopify-to-sheets/core/server"
	"github.com/chafiq1992/shopify-to-sheets/core/sheets"
	"github.com/chafiq1992/shopify-to-sheets/core/shopify"
	"github.com/chafiq1992/shopify-to-sheets/core/snapshot"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"
	"github.com/chafiq1992/shopify-to-sheets/feature/export"
	"github.com/chafiq1992/shopify-to-sheets/feature/reconcile"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Sheets holds configuration for the Google Sheets ledger client.
	Sheets sheets.Config `mapstructure:"sheets"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Stores holds configuration for the per-store registry.
	Stores stores.Config `mapstructure:"stores"`
	// Shopify holds configuration for the admin API client.
	Shopify shopify.Config `mapstructure:"shopify"`
	// Export holds configuration for the export decision engine.
	Export export.Config `mapstructure:"export"`
	// Reconcile holds configuration for the reconciliation sweep.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
	// Cities holds configuration for the city normalizer corpora.
	Cities cities.Config `mapstructure:"cities"`
	// Journal holds configuration for the optional export journal database.
	Journal journal.Config `mapstructure:"journal"`
	// Snapshot holds configuration for the optional sheet snapshot bucket.
	Snapshot snapshot.Config `mapstructure:"snapshot"`
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

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values
// in Viper based on the 'default' and 'mapstructure' tags.
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

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
