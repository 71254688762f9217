package config

import (
	"log"
	"sync/atomic"
)

// Store holds the running configuration. Readers get an immutable snapshot;
// Reload swaps in a whole new one.
type Store struct {
	path string
	cur  atomic.Pointer[Config]
}

// NewStore loads and validates path.
func NewStore(path string) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Store{path: path}
	s.cur.Store(cfg)
	return s, nil
}

// NewStaticStore wraps an already-built config, e.g. in tests.
func NewStaticStore(cfg *Config) *Store {
	s := &Store{}
	s.cur.Store(cfg)
	return s
}

// Current returns the active snapshot. Callers must not modify it.
func (s *Store) Current() *Config {
	return s.cur.Load()
}

// Reload re-reads the file. An invalid file keeps the previous snapshot.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	cfg, err := Load(s.path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	prev := s.cur.Swap(cfg)
	if prev != nil && prev.Scoring != cfg.Scoring {
		log.Printf("[INFO] scoring config reloaded: %+v", cfg.Scoring)
	}
	return nil
}
