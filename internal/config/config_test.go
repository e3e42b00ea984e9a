package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Database: DatabaseConfig{Path: "/tmp/mylib.db"},
		Cache:    CacheConfig{Path: "/tmp/mylib-cache"},
	}
	assert.NoError(t, valid.Validate())

	badEnv := *valid
	badEnv.App.Environment = "sandbox"
	assert.Error(t, badEnv.Validate())

	badLevel := *valid
	badLevel.Logger.Level = "loud"
	assert.Error(t, badLevel.Validate())

	noDB := *valid
	noDB.Database.Path = ""
	assert.Error(t, noDB.Validate())

	noCache := *valid
	noCache.Cache.Path = ""
	assert.Error(t, noCache.Validate())
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("MYLIB_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "MYLIB_TEST_KEY", "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", "MYLIB_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("", "MYLIB_TEST_MISSING", "fallback"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nMYLIB_ENVFILE_A=hello\nMYLIB_ENVFILE_B=\"quoted\"\nnot-a-pair\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("MYLIB_ENVFILE_A", "")
	t.Setenv("MYLIB_ENVFILE_B", "")
	os.Unsetenv("MYLIB_ENVFILE_A")
	os.Unsetenv("MYLIB_ENVFILE_B")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("MYLIB_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("MYLIB_ENVFILE_B"))
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("MYLIB_ENVFILE_C=file\n"), 0o600))

	t.Setenv("MYLIB_ENVFILE_C", "preset")
	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "preset", os.Getenv("MYLIB_ENVFILE_C"))
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/mylib/data.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "mylib", "data.db"), got)
}
