package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlinkhq/notifykit/pkg/config"
)

type testConfig struct {
	Name  string `env:"CONFIG_TEST_NAME" envDefault:"fallback"`
	Port  int    `env:"CONFIG_TEST_PORT" envDefault:"8080"`
	Debug bool   `env:"CONFIG_TEST_DEBUG" envDefault:"false"`
}

type requiredConfig struct {
	Token string `env:"CONFIG_TEST_REQUIRED_TOKEN,required"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED" envDefault:"initial"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "fallback", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_TEST_REQUIRED_TOKEN", "secret")

	var cfg requiredConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "secret", cfg.Token)
}

func TestLoadNilPointer(t *testing.T) {
	err := config.Load[testConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoadMissingRequired(t *testing.T) {
	type missingConfig struct {
		Value string `env:"CONFIG_TEST_NEVER_SET,required"`
	}
	var cfg missingConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("CONFIG_TEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	require.Equal(t, "first", first.Value)

	// A later env change is not observed; the first parse wins.
	t.Setenv("CONFIG_TEST_CACHED", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)
}

func TestMustLoadPanicsOnError(t *testing.T) {
	type badConfig struct {
		Value string `env:"CONFIG_TEST_MUST_MISSING,required"`
	}
	assert.Panics(t, func() {
		var cfg badConfig
		config.MustLoad(&cfg)
	})
}
