package store

import (
	"encoding/json"
	"sort"
	"sync"
)

// Memory is an in-process sink.  Records are kept in their JSON form.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemory returns an empty memory sink.
func NewMemory() *Memory {
	return &Memory{docs: map[string][]byte{}}
}

func (m *Memory) Put(key string, rec interface{}) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; ok {
		return duplicate("memory", key)
	}
	m.docs[key] = data
	return nil
}

func (m *Memory) Exists(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[key]
	return ok, nil
}

// Get decodes the record stored under key into rv.  It reports false
// when there is none.
func (m *Memory) Get(key string, rv interface{}) (bool, error) {
	m.mu.Lock()
	data, ok := m.docs[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, rv)
}

// Keys returns every stored key in order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	rv := make([]string, 0, len(m.docs))
	for k := range m.docs {
		rv = append(rv, k)
	}
	sort.Strings(rv)
	return rv
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

func (m *Memory) Close() error { return nil }
