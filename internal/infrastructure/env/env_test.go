package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_LayersFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WEBPILOT_TEST_A=base\nWEBPILOT_TEST_B=base\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.ci"), []byte("WEBPILOT_TEST_B=ci\n"), 0o644))

	t.Setenv("APP_ENV", "ci")
	t.Setenv("WEBPILOT_TEST_A", "")
	t.Setenv("WEBPILOT_TEST_B", "")
	os.Unsetenv("WEBPILOT_TEST_A")
	os.Unsetenv("WEBPILOT_TEST_B")

	res, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "ci", res.AppEnv)
	assert.Len(t, res.Files, 2)
	assert.Equal(t, "base", os.Getenv("WEBPILOT_TEST_A"))
	assert.Equal(t, "ci", os.Getenv("WEBPILOT_TEST_B"))
}

func TestLoad_MissingFiles(t *testing.T) {
	t.Setenv("APP_ENV", "")

	res, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "dev", res.AppEnv)
	assert.Empty(t, res.Files)
}
