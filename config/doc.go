// Package config loads accessor configuration from a YAML/JSON file, an
// optional .env file and prefixed environment variables using Viper.
//
// # Usage
//
//	var cfg accessor.Config
//	err := config.LoadConfig("accessorkit", &cfg, config.WithConfigFile("accessorkit.yml"))
//
// Environment variables override file values using the service-name prefix
// with underscore-separated paths (e.g. ACCESSORKIT_REDIS_HOST).
package config
