package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
	"github.com/YoshitsuguKoike/stagelist/internal/infra/persistence/file"
)

const documentExt = ".json"

// LocalDocumentStore implements DocumentStore on a filesystem
// Directory structure: <dir>/<listID>.json
type LocalDocumentStore struct {
	fs  afero.Fs
	dir string
}

// NewLocalDocumentStore creates a file-backed store rooted at dir
func NewLocalDocumentStore(fs afero.Fs, dir string) (*LocalDocumentStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lists directory: %w", err)
	}
	return &LocalDocumentStore{fs: fs, dir: dir}, nil
}

func (s *LocalDocumentStore) path(listID string) string {
	return filepath.Join(s.dir, listID+documentExt)
}

func (s *LocalDocumentStore) Load(ctx context.Context, listID string) ([]byte, error) {
	if err := list.ValidateID(listID); err != nil {
		return nil, err
	}
	data, ok, err := file.ReadFileIfExists(s.fs, s.path(listID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, output.ErrDocumentNotFound
	}
	return data, nil
}

func (s *LocalDocumentStore) Save(ctx context.Context, listID string, data []byte) error {
	if err := list.ValidateID(listID); err != nil {
		return err
	}
	return file.WriteFileAtomic(s.fs, s.path(listID), data, 0o644)
}

func (s *LocalDocumentStore) List(ctx context.Context) ([]output.DocumentInfo, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("read lists directory: %w", err)
	}

	var infos []output.DocumentInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || file.IsTemp(name) || !strings.HasSuffix(name, documentExt) {
			continue
		}
		id := strings.TrimSuffix(name, documentExt)
		if list.ValidateID(id) != nil {
			continue
		}
		infos = append(infos, output.DocumentInfo{
			ListID:    id,
			Location:  filepath.Join(s.dir, name),
			Size:      e.Size(),
			UpdatedAt: e.ModTime(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ListID < infos[j].ListID })
	return infos, nil
}

func (s *LocalDocumentStore) Delete(ctx context.Context, listID string) error {
	if err := list.ValidateID(listID); err != nil {
		return err
	}
	exists, err := afero.Exists(s.fs, s.path(listID))
	if err != nil {
		return fmt.Errorf("stat document: %w", err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Remove(s.path(listID)); err != nil {
		return fmt.Errorf("remove document: %w", err)
	}
	return nil
}
