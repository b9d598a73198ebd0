// Package config provides configuration management for clinic-desk.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key, shutdown timeout
//   - Database: driver plus one connection per store (person, waitlist, treatment)
//   - Storage: S3/MinIO credentials and the report bucket
//   - Log: logging level and format
//   - FrontDesk: default room, department, doctor, category and time zone
//
// Nested keys map onto environment variables with underscores, for example
// DATABASE_WAITLIST_HOST or FRONTDESK_ROOM_NAME.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
