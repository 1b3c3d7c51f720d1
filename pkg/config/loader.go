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
	cacheMu sync.RWMutex
	cache   = make(map[string]any)

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into the provided configuration struct.
// Each unique configuration type is parsed at most once per process; later
// calls for the same type return the cached value. The default .env file is
// loaded lazily before the first parse (a missing .env file is not an error).
//
// Example:
//
//	type EmailConfig struct {
//		SenderEmail string `env:"SENDER_EMAIL,required"`
//		DevDir      string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
//	}
//
//	var cfg EmailConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	typeName := typeNameOf[T]()

	cacheMu.RLock()
	if cached, ok := cache[typeName]; ok {
		cacheMu.RUnlock()
		typed, ok := cached.(T)
		if !ok {
			return fmt.Errorf("%w: cached value for %s", ErrInvalidConfigType, typeName)
		}
		*v = typed
		return nil
	}
	cacheMu.RUnlock()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	cacheMu.Lock()
	cache[typeName] = *v
	cacheMu.Unlock()

	return nil
}

// MustLoad is like Load but panics on error. Intended for process startup
// where a missing required variable should prevent the service from running.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}

func typeNameOf[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
