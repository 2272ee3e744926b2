package checkpoint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmptySet(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "checkpoint.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("a.txt"))
}

func TestLoad_TrimsAndDeduplicates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	content := "a.txt\n  b.txt \na.txt\n\n\nc/d.txt\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("a.txt"))
	assert.True(t, s.Contains("b.txt"))
	assert.True(t, s.Contains("c/d.txt"))
}

func TestAdd_AppendsOneLinePerPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	s, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, s.Add("a.txt"))
	require.NoError(t, s.Add("sub/b.txt"))
	// A second Add of a known path must not duplicate the line.
	require.NoError(t, s.Add("a.txt"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, lines)
	assert.Equal(t, 2, s.Len())
}

func TestAdd_ThenReloadRoundTrips(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	s, err := Load(path)
	require.NoError(t, err)

	paths := []string{"x.txt", "y.txt", "deep/z.txt"}
	for _, p := range paths {
		require.NoError(t, s.Add(p))
	}

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Len(), reloaded.Len())
	for _, p := range paths {
		assert.True(t, reloaded.Contains(p), p)
	}
}

func TestAdd_GrowsExistingFileWithoutRewriting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	require.NoError(t, os.WriteFile(path, []byte("old.txt\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Add("new.txt"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old.txt\nnew.txt\n", string(data))
}
