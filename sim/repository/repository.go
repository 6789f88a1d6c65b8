// Package repository stores the kind-specific custom attributes of diagram
// shapes, keyed by element id. Two implementations are provided: an
// in-memory map for single-process use and tests, and a Badger-backed store
// that persists payloads across runs.
package repository

import (
	"errors"
	"sort"

	"github.com/inference-sim/simforge/sim/model"
)

// ErrNotFound is returned by operations that require an existing record.
var ErrNotFound = errors.New("element payload not found")

// Payload is the free-form attribute map stored for one element.
type Payload map[string]interface{}

// Record is one stored payload with its element kind.
type Record struct {
	ID      string
	Kind    model.Kind
	Payload Payload
}

// Repository reads and persists element payloads.
// Get returns ok=false, not an error, when nothing is stored for the id.
type Repository interface {
	Get(elementID string) (payload Payload, ok bool, err error)
	Set(elementID string, payload Payload, kind model.Kind) error
	Delete(elementID string) error
	List() ([]Record, error)
}

// MemoryRepository is a Repository backed by a map. Not safe for concurrent use.
type MemoryRepository struct {
	records map[string]Record
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record)}
}

func (m *MemoryRepository) Get(elementID string) (Payload, bool, error) {
	r, ok := m.records[elementID]
	if !ok {
		return nil, false, nil
	}
	return clonePayload(r.Payload), true, nil
}

func (m *MemoryRepository) Set(elementID string, payload Payload, kind model.Kind) error {
	m.records[elementID] = Record{ID: elementID, Kind: kind, Payload: clonePayload(payload)}
	return nil
}

// Delete removes the payload for elementID. Deleting an absent id is a no-op.
func (m *MemoryRepository) Delete(elementID string) error {
	delete(m.records, elementID)
	return nil
}

// List returns every record sorted by id.
func (m *MemoryRepository) List() ([]Record, error) {
	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, Record{ID: r.ID, Kind: r.Kind, Payload: clonePayload(r.Payload)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// clonePayload copies the top level of p so callers cannot mutate stored state.
func clonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
