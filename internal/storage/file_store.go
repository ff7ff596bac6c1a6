package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore keeps every key in one JSON document on disk with string values
// under string keys, like a browser's local storage. Each write rewrites the
// whole document via tmp + rename.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	// recovered is where an unreadable document was moved at open.
	recovered string
}

type fileDocument struct {
	Keys map[string]string `json:"keys"`
}

// OpenFile loads the document at path. A document that does not decode is
// renamed to path.corrupt-<timestamp> and the store starts empty; Recovered
// reports the new name.
func OpenFile(path string) (*FileStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: empty file path")
	}
	s := &FileStore{path: trimmed, values: make(map[string]string)}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return s, nil
	}
	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%s", trimmed, time.Now().UTC().Format("20060102T150405.000000000"))
		if rerr := os.Rename(trimmed, aside); rerr != nil {
			return nil, fmt.Errorf("decode state file %s: %w (move aside: %v)", trimmed, err, rerr)
		}
		s.recovered = aside
		return s, nil
	}
	for k, v := range doc.Keys {
		s.values[k] = v
	}
	return s, nil
}

// Recovered returns the path an unreadable document was moved to when the
// store was opened, or false when the document loaded cleanly.
func (s *FileStore) Recovered() (string, bool) {
	return s.recovered, s.recovered != ""
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *FileStore) Put(ctx context.Context, key string, value []byte) error {
	return s.Apply(ctx, []Op{{Key: key, Value: value}})
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, []Op{{Key: key, Delete: true}})
}

func (s *FileStore) Apply(_ context.Context, ops []Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]string, len(s.values)+len(ops))
	for k, v := range s.values {
		next[k] = v
	}
	for _, op := range ops {
		if op.Delete {
			delete(next, op.Key)
			continue
		}
		next[op.Key] = string(op.Value)
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) persist(values map[string]string) error {
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(fileDocument{Keys: values}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
