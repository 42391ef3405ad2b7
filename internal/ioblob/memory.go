package ioblob

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memEntry struct {
	info Info
	data []byte
}

type memoryStore struct {
	mu   sync.RWMutex
	objs map[string]memEntry
}

// NewMemory returns a store kept in process memory.
func NewMemory() Store {
	return &memoryStore{objs: make(map[string]memEntry)}
}

func (s *memoryStore) Driver() Driver { return DriverMemory }

func (s *memoryStore) Put(_ context.Context, key string, data []byte) (Info, error) {
	if _, err := sanitizeKey(key); err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objs[key]; ok {
		return Info{}, ErrExists
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	info := Info{Key: key, Size: int64(len(cp)), LastModified: time.Now().UTC()}
	s.objs[key] = memEntry{info: info, data: cp}
	return info, nil
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(e.data))
	copy(cp, e.data)
	return cp, nil
}

func (s *memoryStore) Head(_ context.Context, key string) (Info, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.objs[key]
	return e.info, ok, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objs[key]
	delete(s.objs, key)
	return ok, nil
}

func (s *memoryStore) List(_ context.Context, prefix string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Info
	for k, e := range s.objs {
		if strings.HasPrefix(k, prefix) {
			res = append(res, e.info)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	return res, nil
}
