package settings

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"

	"github.com/lixenwraith/multicube/toml"
)

const (
	dirName  = ".multicube"
	fileName = "settings.toml"
)

// Store is the persisted user preference surface
type Store interface {
	ShowIntro() bool
	SetShowIntro(show bool)
}

// Data is the on-disk settings document
type Data struct {
	ShowIntro bool `toml:"show_intro"`
}

// Defaults returns first-run settings
func Defaults() Data {
	return Data{ShowIntro: true}
}

// DefaultPath returns ~/.multicube/settings.toml, or a relative path when home is unknown
func DefaultPath() string {
	home, err := homedir.Dir()
	if err != nil {
		log.Printf("[settings] home directory unavailable: %v", err)
		return filepath.Join(dirName, fileName)
	}
	return filepath.Join(home, dirName, fileName)
}

// ExpandPath resolves a leading ~ in a user-supplied path
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// FileStore keeps settings in a TOML file
// I/O failures are logged and never surface to callers
type FileStore struct {
	mu   sync.Mutex
	path string
	data Data
}

// Open loads path, falling back to defaults when missing or unreadable
func Open(path string) *FileStore {
	s := &FileStore{path: path, data: Defaults()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("[settings] %s not found, using defaults", path)
	case err != nil:
		log.Printf("[settings] read %s: %v", path, err)
	default:
		loaded := Defaults()
		if err := toml.Unmarshal(data, &loaded); err != nil {
			log.Printf("[settings] parse %s: %v", path, err)
		} else {
			s.data = loaded
		}
	}
	return s
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) ShowIntro() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ShowIntro
}

// SetShowIntro updates and persists the flag
func (s *FileStore) SetShowIntro(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.ShowIntro = show
	if err := s.save(); err != nil {
		log.Printf("[settings] save %s: %v", s.path, err)
	}
}

// save writes through a temp file so a crash never leaves a truncated document
func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(s.data)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemoryStore is a non-persistent Store
type MemoryStore struct {
	mu   sync.Mutex
	data Data
}

func NewMemoryStore(d Data) *MemoryStore {
	return &MemoryStore{data: d}
}

func (m *MemoryStore) ShowIntro() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ShowIntro
}

func (m *MemoryStore) SetShowIntro(show bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.ShowIntro = show
}
