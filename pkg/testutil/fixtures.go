package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/autopage/pkg/paths"
	"github.com/stretchr/testify/require"
)

// Isolate points every autopage directory at a fresh temp dir and returns it.
func Isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(dir, "state"))
	t.Setenv(paths.EnvServiceDataDir, filepath.Join(dir, "data"))
	return dir
}

// WriteDefinition writes an ap.toml style file and returns its path.
func WriteDefinition(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteRepo creates base/name with a repo.toml of kind "autopage" and the
// given ap.toml. It returns the repo directory.
func WriteRepo(t *testing.T, base, name, definition string) string {
	t.Helper()
	dir := filepath.Join(base, name)
	WriteDefinition(t, dir, "repo.toml", "kind = \"autopage\"\n")
	WriteDefinition(t, dir, "ap.toml", definition)
	return dir
}
