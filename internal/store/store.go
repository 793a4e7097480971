package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"vtlink/internal/models"
	"vtlink/internal/providers"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// ShardConfig controls how record files are bucketed. The first
// Level1Length hex characters of the hash pick the top directory, the
// next Level2Length the second, which caps per-directory fan-out at
// 16^n regardless of how many records exist.
type ShardConfig struct {
	Level1Length int
	Level2Length int
	HashLength   int
}

func DefaultShardConfig() ShardConfig {
	return ShardConfig{Level1Length: 2, Level2Length: 2, HashLength: 8}
}

func (c ShardConfig) Validate() error {
	if c.Level1Length <= 0 || c.Level2Length <= 0 || c.HashLength <= 0 {
		return fmt.Errorf("shard lengths must be positive")
	}
	if c.Level1Length+c.Level2Length > c.HashLength {
		return fmt.Errorf("level1Length+level2Length (%d) exceeds hashLength (%d)",
			c.Level1Length+c.Level2Length, c.HashLength)
	}
	return nil
}

// ShardStore keeps one mapping record per file under a two-level
// hash-sharded directory tree. Two instances run side by side, one
// keyed by bilibili UID and one by YouTube channel ID, each holding a
// mirror copy of the same records.
type ShardStore struct {
	root   string
	name   string
	cfg    ShardConfig
	logger providers.Logger
}

func NewShardStore(root, name string, cfg ShardConfig, logger providers.Logger) (*ShardStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("store %s: %w", name, err)
	}
	return &ShardStore{root: root, name: name, cfg: cfg, logger: logger}, nil
}

func (s *ShardStore) Name() string {
	return s.name
}

func (s *ShardStore) Root() string {
	return s.root
}

// Hash returns the identifier's SHA-256 digest truncated to HashLength
// hex characters.
func (s *ShardStore) Hash(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])[:s.cfg.HashLength]
}

// ShardPath returns the record's path relative to the store root:
// <level1>/<level2>/<hash>.json.
func (s *ShardStore) ShardPath(id string) string {
	h := s.Hash(id)
	l1 := h[:s.cfg.Level1Length]
	l2 := h[s.cfg.Level1Length : s.cfg.Level1Length+s.cfg.Level2Length]
	return filepath.Join(l1, l2, h+".json")
}

func (s *ShardStore) recordFile(id string) string {
	return filepath.Join(s.root, s.ShardPath(id))
}

// Write serializes the record and writes it to its shard path,
// replacing any prior content. The write goes through a temp file and
// rename so a reader never observes a half-written record.
func (s *ShardStore) Write(id string, record *models.Mapping) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("store %s: marshal %s: %w", s.name, id, err)
	}

	path := s.recordFile(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("store %s: %w", s.name, err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("store %s: write %s: %w", s.name, id, err)
	}
	return os.Rename(tmpFile, path)
}

// Read returns the stored record, or nil when the identifier has never
// been written, has been deleted, or the file content is unparsable.
// Only unexpected I/O failures produce an error.
func (s *ShardStore) Read(id string) (*models.Mapping, error) {
	data, err := os.ReadFile(s.recordFile(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store %s: read %s: %w", s.name, id, err)
	}
	return decodeRecord(data), nil
}

// decodeRecord treats empty or unparsable content as absent. Deleted
// records are zero-length files, so this is the single place that
// makes tombstones invisible to readers.
func decodeRecord(data []byte) *models.Mapping {
	if len(data) == 0 {
		return nil
	}
	var m models.Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	if m.BilibiliUID == "" && m.YoutubeChannelID == "" {
		return nil
	}
	return &m
}

// Has reports whether a non-empty record file exists. No content parse.
func (s *ShardStore) Has(id string) bool {
	fi, err := os.Stat(s.recordFile(id))
	return err == nil && fi.Size() > 0
}

// Delete clears the record file in place. The path stays so index
// entries built before the delete do not dangle; readers already treat
// empty content as absent.
func (s *ShardStore) Delete(id string) error {
	path := s.recordFile(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("store %s: delete %s: %w", s.name, id, err)
	}
	return os.Truncate(path, 0)
}

type Entry struct {
	ID     string
	Record *models.Mapping
}

// BatchWrite issues all writes concurrently and waits for every one to
// finish. There is no rollback: a failed write does not undo the
// others, and the caller gets the first error observed.
func (s *ShardStore) BatchWrite(entries []Entry) error {
	var g errgroup.Group
	for _, e := range entries {
		e := e
		g.Go(func() error {
			return s.Write(e.ID, e.Record)
		})
	}
	return g.Wait()
}
