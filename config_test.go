package jsql

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.Duration)

			text, err := d.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.expected.String(), string(text))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsql.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
login_timeout = "5s"
url_cache_size = 8
time_zone = "UTC"
drivers = ["fake"]
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.LoginTimeout.Duration)
	assert.Equal(t, 8, cfg.URLCacheSize)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, defaultLogPrefix, cfg.LogPrefix)
	assert.Equal(t, []string{"fake"}, cfg.Drivers)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(path, []byte("url_cache_size = 3\n"), 0o600))
	t.Setenv(ConfigEnv, path)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.URLCacheSize)
}

func TestDecodeConfigRejects(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{
		"negative cache":   "url_cache_size = -1",
		"negative timeout": `login_timeout = "-1s"`,
		"unknown zone":     `time_zone = "Mars/Olympus"`,
		"bad duration":     `login_timeout = "soon"`,
		"bad toml":         "url_cache_size = ",
	} {
		_, err := DecodeConfig(doc)
		assert.Error(t, err, name)
	}

	cfg := DefaultConfig()
	assert.Equal(t, defaultURLCacheSize, cfg.URLCacheSize)
	assert.Equal(t, time.Duration(0), cfg.LoginTimeout.Duration)
}

func TestConfigApply(t *testing.T) {
	saved := Location
	defer func() { Location = saved }()

	cfg, err := DecodeConfig(`
login_timeout = "250ms"
url_cache_size = 2
time_zone = "UTC"
quiet = true
drivers = ["absent"]
`)
	require.NoError(t, err)

	m := NewDriverManager()
	require.NoError(t, cfg.Apply(m))
	assert.Equal(t, 250*time.Millisecond, m.LoginTimeout())
	assert.Nil(t, m.Logger())
	assert.Equal(t, time.UTC, Location)

	cfg.Quiet = false
	cfg.LogPrefix = "test: "
	require.NoError(t, cfg.Apply(m))
	require.NotNil(t, m.Logger())
	assert.Equal(t, "test: ", m.Logger().Prefix())
}
