package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	cfgDir := filepath.Join(home, ".richtext")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config"), []byte(body), 0600))
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	withHome(t)

	cfg := Default()
	require.NoError(t, cfg.Save())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadConfigNonExistent(t *testing.T) {
	withHome(t)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadOrDefaultFallsBackWhenMissing(t *testing.T) {
	withHome(t)

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultMarketplaceHost, cfg.MarketplaceHost)
	assert.Equal(t, DefaultLookupTimeout, cfg.LookupTimeout)
}

func TestSaveLoadRoundtripWithAllFields(t *testing.T) {
	withHome(t)

	original := Config{
		APIURL:          "https://api.example.test",
		MarketplaceURL:  "https://market.example.test",
		MarketplaceHost: "example.test",
		Locale:          "EN_US",
		LookupTimeout:   3 * time.Second,
		CacheTTL:        time.Minute,
		LogLevel:        "debug",
		VimKeys:         true,
	}
	require.NoError(t, original.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, *Default(), *cfg)
}

func TestLoadConfigParsesDurations(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "lookup_timeout: 750ms\ncache_ttl: 2m\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.LookupTimeout)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
}

func TestLoadConfigNegativeCacheTTLDisablesCache(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "cache_ttl: -1s\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, -time.Second, cfg.CacheTTL)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "invalid: yaml: content:")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadURL(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "api_url: ftp://nope\n")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "api_url")
}

func TestLoadConfigRejectsUnknownLogLevel(t *testing.T) {
	home := withHome(t)
	writeConfig(t, home, "log_level: chatty\n")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestConfigPermissionsStrictlyEnforced(t *testing.T) {
	withHome(t)

	require.NoError(t, Default().Save())
	require.NoError(t, os.Chmod(Path(), 0666))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")

	_, err = LoadOrDefault()
	assert.Error(t, err)
}

func TestPathReturnsCorrectLocation(t *testing.T) {
	path := Path()
	assert.Contains(t, path, ".richtext")
	assert.Contains(t, path, "config")
	assert.Contains(t, LogPath(), "richtext.log")
}
