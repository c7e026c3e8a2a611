package state

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/goliatone/go-scorecard/layering"
)

// MemoryStore is a minimal in-memory Store implementation intended for tests
// and examples. It uses Ref.Identifier() as its key and a revision counter as
// the ETag.
type MemoryStore[T any] struct {
	mu       sync.RWMutex
	records  map[string]memoryRecord[T]
	revision int
}

type memoryRecord[T any] struct {
	snapshot T
	meta     Meta
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{records: map[string]memoryRecord[T]{}}
}

func (s *MemoryStore[T]) Load(_ context.Context, ref Ref) (T, Meta, bool, error) {
	var zero T
	key, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return zero, Meta{}, false, nil
	}
	return layering.Clone(record.snapshot), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore[T]) Save(_ context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.records[key]; ok && meta.ETag != "" && meta.ETag != current.meta.ETag {
		return current.meta, ErrETagMismatch
	}
	s.revision++
	saved := cloneMeta(meta)
	saved.ETag = "r" + strconv.Itoa(s.revision)
	saved.UpdatedAt = time.Now()
	s.records[key] = memoryRecord[T]{snapshot: layering.Clone(snapshot), meta: saved}
	return cloneMeta(saved), nil
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
