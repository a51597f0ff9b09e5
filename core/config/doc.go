// Package config provides configuration management for the contest sync service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of every section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, environment marker)
//   - Database: driver (mysql, sqlite, mongodb) and connection details
//   - Storage: S3/MinIO credentials for batch snapshots
//   - Log: Logging level and format
//   - Sync: cycle intervals, incremental window and providers
//   - Upstream: provider endpoints, timeouts and retries
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.FullInterval)
package config
