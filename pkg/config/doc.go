// Package config loads typed configuration structs from the environment.
//
// Every bluebird package that needs settings exposes a Config struct tagged
// for github.com/caarlos0/env, and the binary loads each one with Load:
//
//	var sessCfg session.Config
//	config.MustLoad(&sessCfg)
//
// A .env file in the working directory is read once, before the first Load,
// through github.com/joho/godotenv. Real environment variables always win.
// Parsed values are cached per type.
package config
