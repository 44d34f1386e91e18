package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> value of that type
	loadMu     sync.Mutex
)

func loadDotenv() {
	dotenvOnce.Do(func() {
		// A missing .env file is fine; the environment may be set elsewhere.
		_ = godotenv.Load()
	})
}

// Load populates cfg from environment variables. The first successful load of a
// type is cached and copied into every later call for the same type.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil target")
	}

	key := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := cache.Load(key); ok {
		*cfg = v.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if v, ok := cache.Load(key); ok {
		*cfg = v.(T)
		return nil
	}

	loadDotenv()

	var fresh T
	if err := env.Parse(&fresh); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}
	cache.Store(key, fresh)
	*cfg = fresh
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// LoadFile decodes the TOML file at path into cfg. Precedence, lowest first:
// envDefault tags, the file, then environment variables that differ from their
// defaults. Results are not cached.
func LoadFile[T any](path string, cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil target")
	}
	loadDotenv()

	var defaults, fromEnv T
	if err := env.ParseWithOptions(&defaults, env.Options{Environment: map[string]string{}}); err != nil {
		return fmt.Errorf("config: defaults for %s: %w", reflect.TypeOf((*T)(nil)).Elem(), err)
	}
	if err := env.Parse(&fromEnv); err != nil {
		return fmt.Errorf("config: parse %s: %w", reflect.TypeOf((*T)(nil)).Elem(), err)
	}

	fresh := defaults
	md, err := toml.DecodeFile(path, &fresh)
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config: %s: unknown keys %v", path, undecoded)
	}

	overlay(&fresh, defaults, fromEnv)
	*cfg = fresh
	return nil
}

// overlay copies fields of fromEnv into dst where they differ from defaults.
// Embedded structs are merged field by field.
func overlay[T any](dst *T, defaults, fromEnv T) {
	dv := reflect.ValueOf(dst).Elem()
	if dv.Kind() != reflect.Struct {
		return
	}
	overlayValue(dv, reflect.ValueOf(defaults), reflect.ValueOf(fromEnv))
}

func overlayValue(dst, defaults, fromEnv reflect.Value) {
	for i := 0; i < dst.NumField(); i++ {
		field := dst.Field(i)
		if !field.CanSet() {
			continue
		}
		if dst.Type().Field(i).Anonymous && field.Kind() == reflect.Struct {
			overlayValue(field, defaults.Field(i), fromEnv.Field(i))
			continue
		}
		if !reflect.DeepEqual(defaults.Field(i).Interface(), fromEnv.Field(i).Interface()) {
			field.Set(fromEnv.Field(i))
		}
	}
}
