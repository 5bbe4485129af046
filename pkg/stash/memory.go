package stash

import (
	"bytes"
	"slices"
	"sync"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
)

// MemStorage keeps encoded records in memory. Records are copied in and out
// through the deterministic encoding, so callers never share state with the
// store.
type MemStorage struct {
	mu       sync.RWMutex
	schemata map[rgb.SchemaID][]byte
	geneses  map[rgb.ContractID][]byte
}

// A compile-time assertion to ensure MemStorage implements Store.
var _ Store = (*MemStorage)(nil)

// NewMemStorage returns an empty in-memory stash.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		schemata: make(map[rgb.SchemaID][]byte),
		geneses:  make(map[rgb.ContractID][]byte),
	}
}

func sortedKeys[T recordID](m map[T][]byte) []T {
	ids := make([]T, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b T) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

func (s *MemStorage) SchemaIDs() ([]rgb.SchemaID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.schemata), nil
}

func (s *MemStorage) Schema(id rgb.SchemaID) (*rgb.Schema, error) {
	s.mu.RLock()
	data, ok := s.schemata[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound("schema", id)
	}
	var schema rgb.Schema
	if err := rgb.Decode(data, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

func (s *MemStorage) HasSchema(id rgb.SchemaID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.schemata[id]
	return ok, nil
}

func (s *MemStorage) AddSchema(schema *rgb.Schema) (bool, error) {
	data, err := rgb.Encode(schema)
	if err != nil {
		return false, err
	}
	id := schema.SchemaID()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.schemata[id]
	s.schemata[id] = data
	return existed, nil
}

func (s *MemStorage) RemoveSchema(id rgb.SchemaID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schemata[id]; !ok {
		return false, notFound("schema", id)
	}
	delete(s.schemata, id)
	return true, nil
}

func (s *MemStorage) ContractIDs() ([]rgb.ContractID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.geneses), nil
}

func (s *MemStorage) Genesis(id rgb.ContractID) (*rgb.Genesis, error) {
	s.mu.RLock()
	data, ok := s.geneses[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound("genesis", id)
	}
	var genesis rgb.Genesis
	if err := rgb.Decode(data, &genesis); err != nil {
		return nil, err
	}
	return &genesis, nil
}

func (s *MemStorage) HasGenesis(id rgb.ContractID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.geneses[id]
	return ok, nil
}

func (s *MemStorage) AddGenesis(genesis *rgb.Genesis) (bool, error) {
	data, err := rgb.Encode(genesis)
	if err != nil {
		return false, err
	}
	id := genesis.ContractID()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.geneses[id]
	s.geneses[id] = data
	return existed, nil
}

func (s *MemStorage) RemoveGenesis(id rgb.ContractID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.geneses[id]; !ok {
		return false, notFound("genesis", id)
	}
	delete(s.geneses, id)
	return true, nil
}
