package api

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/ripo/pkg/fat"
)

type containerRecord struct {
	ID        string
	Name      string
	Data      []byte
	File      *fat.File
	CreatedAt time.Time
}

// ContainerStore keeps uploaded containers in memory. Records are immutable
// once stored; readers extract through their own bytes.Reader.
type ContainerStore struct {
	mu         sync.Mutex
	containers map[string]*containerRecord
}

func NewContainerStore() *ContainerStore {
	return &ContainerStore{
		containers: make(map[string]*containerRecord),
	}
}

// Add parses data and stores it. Nothing is stored when parsing fails.
func (s *ContainerStore) Add(name string, data []byte, now time.Time) (*containerRecord, error) {
	f, err := fat.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	rec := &containerRecord{
		ID:        newContainerID(),
		Name:      name,
		Data:      data,
		File:      f,
		CreatedAt: now,
	}

	s.mu.Lock()
	s.containers[rec.ID] = rec
	s.mu.Unlock()
	return rec, nil
}

func (s *ContainerStore) Get(id string) (*containerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.containers[id]
	return rec, ok
}

func (s *ContainerStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.containers[id]; !ok {
		return false
	}
	delete(s.containers, id)
	return true
}

// List returns records oldest first.
func (s *ContainerStore) List() []*containerRecord {
	s.mu.Lock()
	out := make([]*containerRecord, 0, len(s.containers))
	for _, rec := range s.containers {
		out = append(out, rec)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func newContainerID() string {
	return "ctr_" + uuid.NewString()
}
