package store

import (
	"context"
	"sort"
)

// MemoryStore keeps sequences in a map. It backs tests and the --sim serve
// mode, where persistence across runs is not wanted.
type MemoryStore struct {
	seqs map[string]*Sequence
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seqs: make(map[string]*Sequence)}
}

func (m *MemoryStore) Save(_ context.Context, seq *Sequence) error {
	if err := validateForSave(seq); err != nil {
		return err
	}
	m.seqs[seq.Name] = seq.Clone()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, name string) (*Sequence, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	seq, ok := m.seqs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return seq.Clone(), nil
}

func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.seqs))
	for name := range m.seqs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if _, ok := m.seqs[name]; !ok {
		return ErrNotFound
	}
	delete(m.seqs, name)
	return nil
}
