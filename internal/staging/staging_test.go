package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_WritesPDFInDir(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	res, err := s.Stage([]byte("%PDF-1.4"))
	require.NoError(t, err)
	t.Cleanup(func() { res.Release() })

	assert.Equal(t, dir, filepath.Dir(res.Path()))
	assert.True(t, strings.HasSuffix(res.Path(), ".pdf"), "unexpected path %s", res.Path())

	data, err := os.ReadFile(res.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestStage_UniquePaths(t *testing.T) {
	s := New(t.TempDir())

	a, err := s.Stage([]byte("a"))
	require.NoError(t, err)
	defer a.Release()
	b, err := s.Stage([]byte("b"))
	require.NoError(t, err)
	defer b.Release()

	assert.NotEqual(t, a.Path(), b.Path())
}

func TestRelease_RemovesFile(t *testing.T) {
	s := New(t.TempDir())

	res, err := s.Stage([]byte("data"))
	require.NoError(t, err)

	require.NoError(t, res.Release())
	_, err = os.Stat(res.Path())
	assert.True(t, os.IsNotExist(err), "expected staged file removal, got err=%v", err)
}

func TestRelease_Idempotent(t *testing.T) {
	s := New(t.TempDir())

	res, err := s.Stage([]byte("data"))
	require.NoError(t, err)

	require.NoError(t, res.Release())
	require.NoError(t, res.Release())
}

func TestRelease_AlreadyRemoved(t *testing.T) {
	s := New(t.TempDir())

	res, err := s.Stage([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(res.Path()))

	assert.NoError(t, res.Release())
}

func TestStage_MissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))

	_, err := s.Stage([]byte("data"))
	assert.Error(t, err)
}

func TestDir_DefaultsToTempDir(t *testing.T) {
	assert.Equal(t, os.TempDir(), New("").Dir())
	assert.Equal(t, "/srv/stage", New("/srv/stage").Dir())
}
