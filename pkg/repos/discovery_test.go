package repos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRepo(t *testing.T, dir, repoToml, apToml string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	if repoToml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(repoToml), 0644))
	}
	if apToml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultDefinitionFile), []byte(apToml), 0644))
	}
}

func TestDiscover(t *testing.T) {
	base := t.TempDir()
	writeRepo(t, filepath.Join(base, "slack"), `kind = "autopage"`, "")
	writeRepo(t, filepath.Join(base, "code"), "kind = \"autopage\"\npage = \"vscode\"", "")
	writeRepo(t, filepath.Join(base, "other"), `kind = "dotfiles"`, "")
	writeRepo(t, filepath.Join(base, "broken"), `kind = `, "")
	writeRepo(t, filepath.Join(base, "noconfig"), "", "[[button]]\n")
	writeRepo(t, filepath.Join(base, ".hidden"), `kind = "autopage"`, "")
	require.NoError(t, os.WriteFile(filepath.Join(base, "README.md"), []byte("hi"), 0644))

	found, err := NewDiscoverer().Discover(base)
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, "code", found[0].Name)
	assert.Equal(t, "vscode", found[0].PageName())
	assert.Equal(t, "slack", found[1].Name)
	assert.Equal(t, "slack", found[1].PageName())
	assert.Equal(t, "file://"+filepath.Join(base, "slack"), found[1].URL)
	assert.Equal(t, "autopage", found[1].Kind())
}

func TestDiscoverFileURL(t *testing.T) {
	base := t.TempDir()
	writeRepo(t, filepath.Join(base, "slack"), `kind = "autopage"`, "")

	found, err := NewDiscoverer().Discover("file://" + base)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "slack", found[0].Name)
}

func TestDiscoverSingleRepo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "firefox")
	writeRepo(t, dir, `kind = "autopage"`, "[[button]]\ntop = \"x\"\n")

	found, err := NewDiscoverer().Discover(dir)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "firefox", found[0].Name)

	writeRepo(t, dir, `kind = "other"`, "")
	_, err = NewDiscoverer().Discover(dir)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoInvalid))
}

func TestDiscoverErrors(t *testing.T) {
	_, err := NewDiscoverer().Discover(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, err = NewDiscoverer().Discover("https://example.com/recipes")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotImplemented))

	_, err = NewDiscoverer().Discover("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDiscoverCustomKind(t *testing.T) {
	base := t.TempDir()
	writeRepo(t, filepath.Join(base, "a"), `kind = "deckpages"`, "")
	writeRepo(t, filepath.Join(base, "b"), `kind = "autopage"`, "")

	found, err := (&Discoverer{Kind: "deckpages"}).Discover(base)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "a", found[0].Name)
}

func TestRepoLoadRereads(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "firefox")
	writeRepo(t, dir, `kind = "autopage"`, "[[button]]\ntop = \"one\"\n")

	found, err := NewDiscoverer().Discover(dir)
	require.NoError(t, err)
	repo := found[0]

	def, err := repo.Load("")
	require.NoError(t, err)
	assert.Equal(t, "one", *def.Buttons[0].Top)
	assert.Equal(t, filepath.Join(dir, DefaultDefinitionFile), def.SourcePath)

	writeRepo(t, dir, "", "[[button]]\ntop = \"two\"\n[[button]]\n")
	def, err = repo.Load("")
	require.NoError(t, err)
	assert.Len(t, def.Buttons, 2)
	assert.Equal(t, "two", *def.Buttons[0].Top)
}

func TestRepoLoadMissingDefinition(t *testing.T) {
	repo := Repo{Name: "x", Dir: t.TempDir()}
	_, err := repo.Load("")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Equal(t, "x", errors.GetErrorDetails(err)["repo"])
}
