// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use and uses the caarlos0/env library
// for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/grapetree/core/config"
//
//	type RouterConfig struct {
//		MaxRedirects int `env:"GRAPETREE_MAX_REDIRECTS" envDefault:"16"`
//	}
//
//	var cfg RouterConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 RouterConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 RouterConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// # Files
//
// LoadFile reads a TOML file with BurntSushi/toml. Fields absent from the file keep
// their envDefault; environment variables set to a non-default value override the
// file. Unknown keys in the file are an error. File loads are never cached.
//
//	var cfg RouterConfig
//	err := config.LoadFile("grapetree.toml", &cfg)
package config
