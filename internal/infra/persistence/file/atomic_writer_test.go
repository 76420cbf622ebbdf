package file_test

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/stagelist/internal/infra/persistence/file"
)

func assertNoTemp(t *testing.T, fs afero.Fs, dir string) {
	t.Helper()
	entries, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, file.IsTemp(e.Name()), "temp file left behind: %s", e.Name())
	}
}

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		dir     string
		data    []byte
		setupFS func(fs afero.Fs)
	}{
		{
			name: "new file in new directory",
			path: "lists/default.json",
			dir:  "lists",
			data: []byte(`{"stage":1}`),
		},
		{
			name: "overwrite existing file",
			path: "lists/default.json",
			dir:  "lists",
			data: []byte(`{"stage":2}`),
			setupFS: func(fs afero.Fs) {
				_ = afero.WriteFile(fs, "lists/default.json", []byte(`{"stage":1}`), 0o644)
			},
		},
		{
			name: "deeply nested",
			path: "a/b/c/d/e/file.json",
			dir:  "a/b/c/d/e",
			data: []byte("x"),
		},
		{
			name: "empty file",
			path: "empty.json",
			dir:  ".",
			data: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tt.setupFS != nil {
				tt.setupFS(fs)
			}

			require.NoError(t, file.WriteFileAtomic(fs, tt.path, tt.data, 0o600))

			got, err := afero.ReadFile(fs, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)

			info, err := fs.Stat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, "-rw-------", info.Mode().Perm().String())

			assertNoTemp(t, fs, tt.dir)
		})
	}
}

type failRenameFS struct {
	afero.Fs
}

func (f *failRenameFS) Rename(oldname, newname string) error {
	return errors.New("rename failed")
}

func TestWriteFileAtomic_RenameFailure(t *testing.T) {
	fs := &failRenameFS{Fs: afero.NewMemMapFs()}

	err := file.WriteFileAtomic(fs, "doc.json", []byte("content"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename failed")

	assertNoTemp(t, fs, ".")
	exists, err := afero.Exists(fs, "doc.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReadFileIfExists(t *testing.T) {
	fs := afero.NewMemMapFs()

	data, ok, err := file.ReadFileIfExists(fs, "missing.json")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)

	require.NoError(t, afero.WriteFile(fs, "present.json", []byte("{}"), 0o644))
	data, ok, err = file.ReadFileIfExists(fs, "present.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("{}"), data)
}

func TestIsTemp(t *testing.T) {
	assert.True(t, file.IsTemp(".tmp-12345"))
	assert.False(t, file.IsTemp(".tmp-"))
	assert.False(t, file.IsTemp("default.json"))
}
