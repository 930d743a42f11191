// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv, which reads optional .env files into
// the process environment, with github.com/caarlos0/env/v11, which parses the
// environment into structs annotated with `env` and `envDefault` tags.
//
// Each configuration type is parsed once and cached for the lifetime of the
// process, so packages can call Load for the same struct independently and get
// identical values. Reset clears the cache in tests.
//
// # Usage
//
//	var (
//		sessionCfg session.Config
//		redisCfg   redis.Config
//	)
//	config.MustLoad(&sessionCfg)
//	if err := config.Load(&redisCfg); err != nil {
//		return err
//	}
//
// Variables set in the real environment always win over .env files.
package config
