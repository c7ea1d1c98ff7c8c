package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureParentDir_Relative(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureParentDir(filepath.Join("data", "hydro.db"))
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "data"))
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(got))
	require.NoError(t, err)
	require.Equal(t, want, gotDir)
	require.Equal(t, "hydro.db", filepath.Base(got))

	fi, err := os.Stat(gotDir)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a", "b", "hydro.db")

	first, err := EnsureParentDir(file)
	require.NoError(t, err)
	second, err := EnsureParentDir(file)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, file, first)
}

func TestEnsureParentDir_HomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}

	got, err := EnsureParentDir("~/.hydrokeeper/hydro.db")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".hydrokeeper", "hydro.db"), got)
	require.DirExists(t, filepath.Join(home, ".hydrokeeper"))
}

func TestEnsureParentDir_ParentIsFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "hydro.db"))
	require.Error(t, err)
}
