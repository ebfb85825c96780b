package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "all", "a.rpm")
	testContent := []byte("package")

	require.NoError(t, fs.MkdirAll(filepath.Dir(testFile), 0755))
	require.NoError(t, fs.WriteFile(testFile, testContent, 0644))

	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "a.rpm", info.Name())

	content, err := fs.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	moved := filepath.Join(tmpDir, "debug-a.rpm")
	require.NoError(t, fs.Rename(testFile, moved))
	_, err = fs.Stat(testFile)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, fs.Remove(moved))
	_, err = fs.Stat(moved)
	assert.True(t, os.IsNotExist(err))
}

func TestOSLinkIdentity(t *testing.T) {
	fs := NewOS()
	tmpDir := t.TempDir()

	src := filepath.Join(tmpDir, "src.rpm")
	dst := filepath.Join(tmpDir, "dst.rpm")
	other := filepath.Join(tmpDir, "other.rpm")
	require.NoError(t, fs.WriteFile(src, []byte("a"), 0644))
	require.NoError(t, fs.WriteFile(other, []byte("b"), 0644))

	require.NoError(t, fs.Link(src, dst))

	srcID, err := fs.Identify(src)
	require.NoError(t, err)
	dstID, err := fs.Identify(dst)
	require.NoError(t, err)
	otherID, err := fs.Identify(other)
	require.NoError(t, err)

	assert.True(t, srcID.SameFile(dstID))
	assert.True(t, srcID.SameDevice(otherID))
	assert.False(t, srcID.SameFile(otherID))

	err = fs.Link(src, dst)
	assert.True(t, os.IsExist(err), "linking onto an existing path reports EEXIST, got %v", err)

	_, err = fs.Identify(filepath.Join(tmpDir, "missing"))
	assert.True(t, os.IsNotExist(err))
}
