package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory adalah implementasi Store di memori untuk testing dan mode dev.
// Seperti store tanpa index, Memory tidak mendukung order-by di sisi
// server: Query dengan orderBy mengembalikan ErrOrderUnsupported supaya
// jalur fallback pemanggil ikut teruji.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage // collection -> id -> doc
}

func NewMemory() *Memory {
	return &Memory{data: map[string]map[string]json.RawMessage{}}
}

func (m *Memory) ListAll(ctx context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := []Document{}
	for id, raw := range m.data[collection] {
		docs = append(docs, Document{ID: id, Data: append(json.RawMessage(nil), raw...)})
	}
	// Urutan map acak; stabilkan berdasarkan id supaya test deterministik
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *Memory) Query(ctx context.Context, collection string, where Where, orderBy string) ([]Document, error) {
	if orderBy != "" {
		return nil, ErrOrderUnsupported
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := []Document{}
	for id, raw := range m.data[collection] {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		val, ok := fields[where.Field]
		if !ok || fmt.Sprint(val) != where.Value {
			continue
		}
		docs = append(docs, Document{ID: id, Data: append(json.RawMessage(nil), raw...)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *Memory) GetByID(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: append(json.RawMessage(nil), raw...)}, nil
}

func (m *Memory) Create(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.NewString()
	if err := m.CreateWithID(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) CreateWithID(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.data[collection]
	if col == nil {
		col = map[string]json.RawMessage{}
		m.data[collection] = col
	}
	if _, exists := col[id]; exists {
		return ErrConflict
	}
	col[id] = raw
	return nil
}

func (m *Memory) OverwriteAll(ctx context.Context, collection string, docs map[string]any) error {
	col := map[string]json.RawMessage{}
	for id, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal doc %q: %w", id, err)
		}
		col[id] = raw
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[collection] = col
	return nil
}

func (m *Memory) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.data[collection][id] = merged
	return nil
}

func (m *Memory) DeleteByID(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.data[collection], id)
	return nil
}
