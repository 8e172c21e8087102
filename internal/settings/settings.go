// Package settings stores per-user chart preferences as plain key/value pairs.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Setting keys.
const (
	// KeyShowOverviewChart holds "yes" or "no".
	KeyShowOverviewChart = "show_overview_chart"
	// KeyWallet holds the transaction list the user charts by default.
	KeyWallet = "wallet"
)

// Store is a per-user key/value capability. Get returns "" for unset keys.
type Store interface {
	Get(user, key string) (string, error)
	Set(user, key, value string) error
}

// ShowOverviewChart reports whether user enabled the overview chart.
// Unset means disabled.
func ShowOverviewChart(s Store, user string) (bool, error) {
	v, err := s.Get(user, KeyShowOverviewChart)
	if err != nil {
		return false, err
	}
	return v == "yes", nil
}

// SetShowOverviewChart stores the overview chart flag as "yes" or "no".
func SetShowOverviewChart(s Store, user string, show bool) error {
	v := "no"
	if show {
		v = "yes"
	}
	return s.Set(user, KeyShowOverviewChart, v)
}

// MemoryStore keeps settings in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(user, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[user][key], nil
}

func (m *MemoryStore) Set(user, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[user] == nil {
		m.data[user] = make(map[string]string)
	}
	m.data[user][key] = value
	return nil
}

// FileStore keeps settings in a YAML file, one mapping per user. The file is
// read on every Get and rewritten on every Set.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore backed by path. The file need not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(user, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", err
	}
	return data[user][key], nil
}

func (f *FileStore) Set(user, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if data[user] == nil {
		data[user] = make(map[string]string)
	}
	data[user][key] = value
	return f.save(data)
}

func (f *FileStore) load() (map[string]map[string]string, error) {
	data := make(map[string]map[string]string)
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if data == nil {
		data = make(map[string]map[string]string)
	}
	return data, nil
}

func (f *FileStore) save(data map[string]map[string]string) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
