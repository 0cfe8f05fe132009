// Package config provides configuration management for datajoin.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults live in `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Join: strict mode, scene cache TTL, save batch size and join timeout
//   - Metrics: Prometheus endpoint settings
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
