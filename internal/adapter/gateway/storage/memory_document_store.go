package storage

import (
	"context"
	"sort"
	"time"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/pkg/kv"
)

type memDocument struct {
	data      []byte
	updatedAt time.Time
}

// MemoryDocumentStore keeps documents in process memory. Contents are lost on exit.
type MemoryDocumentStore struct {
	docs *kv.Store[string, memDocument]
	now  func() time.Time
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		docs: kv.New[string, memDocument](),
		now:  time.Now,
	}
}

func (s *MemoryDocumentStore) Load(ctx context.Context, listID string) ([]byte, error) {
	d, ok := s.docs.Get(listID)
	if !ok {
		return nil, output.ErrDocumentNotFound
	}
	return append([]byte(nil), d.data...), nil
}

func (s *MemoryDocumentStore) Save(ctx context.Context, listID string, data []byte) error {
	s.docs.Set(listID, memDocument{
		data:      append([]byte(nil), data...),
		updatedAt: s.now(),
	})
	return nil
}

func (s *MemoryDocumentStore) List(ctx context.Context) ([]output.DocumentInfo, error) {
	infos := make([]output.DocumentInfo, 0, s.docs.Len())
	for _, id := range s.docs.Keys() {
		d, ok := s.docs.Get(id)
		if !ok {
			continue
		}
		infos = append(infos, output.DocumentInfo{
			ListID:    id,
			Location:  "memory://" + id,
			Size:      int64(len(d.data)),
			UpdatedAt: d.updatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ListID < infos[j].ListID })
	return infos, nil
}

func (s *MemoryDocumentStore) Delete(ctx context.Context, listID string) error {
	s.docs.Delete(listID)
	return nil
}
