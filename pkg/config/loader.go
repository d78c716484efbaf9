package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache sync.Map // reflect.Type -> any (a T value)

	loadDotenv sync.Once
)

// Load fills v from environment variables according to its env tags.
// Values from a .env file in the working directory are applied first
// without overriding the real environment. Each type is parsed once and
// later calls copy the cached value.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotenv.Do(func() {
		// a missing .env is normal outside development
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	parsed, err := env.ParseAs[T]()
	if err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	actual, _ := cache.LoadOrStore(key, parsed)
	*v = actual.(T)
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadFiles applies the given dotenv files before the first Load. Later
// files do not override earlier ones or the real environment.
func LoadFiles(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	cache.Clear()
}
