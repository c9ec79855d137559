// Package config loads cryptlib configuration with Viper.
//
// Sources, later ones winning:
//
//  1. config.yml, searched under ./cmd/<service>/, ./config/ and the
//     working directory, or given with WithConfigFile
//  2. a .env file loaded with godotenv (never overrides the real environment)
//  3. CRYPTLIB_* environment variables, e.g. CRYPTLIB_SERVER_PORT=9090
//
// # Usage
//
//	var cfg config.AppConfig
//	if err := config.LoadConfig("cryptlib", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
