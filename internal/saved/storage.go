package saved

import (
	"errors"
	"os"
	"sync"
)

// ErrNoValue is returned by a Storage when the key has never been written.
var ErrNoValue = errors.New("saved: no stored value")

// Storage is the raw keyed-blob substrate the store persists into. It maps
// directly onto a get/set/remove key-value surface; the store layers the
// versioned envelope and merge semantics on top.
type Storage interface {
	Get() ([]byte, error)
	Set(data []byte) error
	Remove() error
}

// FileStorage persists the blob as a single file on disk.
type FileStorage struct {
	Path string
}

func (f *FileStorage) Get() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, ErrNoValue
	}
	return data, err
}

func (f *FileStorage) Set(data []byte) error {
	return os.WriteFile(f.Path, data, 0644)
}

func (f *FileStorage) Remove() error {
	err := os.Remove(f.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemStorage is an in-memory Storage for tests.
type MemStorage struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

func (m *MemStorage) Get() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, ErrNoValue
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemStorage) Set(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

func (m *MemStorage) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.set = false
	return nil
}
