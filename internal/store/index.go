package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"vtlink/internal/models"
	"vtlink/internal/providers"

	json "github.com/goccy/go-json"
)

const indexFileName = "index.json"

// BuildIndex walks every record file in the store and produces a fresh
// index with two entries per record, one per platform identifier, both
// pointing at the same shard-relative path. O(total records) — run it
// after a batch of writes completes, never per read.
func (s *ShardStore) BuildIndex() (models.MappingIndex, error) {
	index := make(models.MappingIndex)

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") || d.Name() == indexFileName {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		record := decodeRecord(data)
		if record == nil {
			// tombstone or corrupt file, skip silently
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		index[record.BilibiliUID] = rel
		index[record.YoutubeChannelID] = rel
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store %s: build index: %w", s.name, err)
	}
	return index, nil
}

// WriteIndex persists the index as a single file at the store root.
func (s *ShardStore) WriteIndex(index models.MappingIndex) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("store %s: marshal index: %w", s.name, err)
	}

	path := filepath.Join(s.root, indexFileName)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("store %s: write index: %w", s.name, err)
	}
	return os.Rename(tmpFile, path)
}

// ReadIndex returns the persisted index, or nil when it is missing or
// malformed. The index is derived state, so a bad file is reported and
// treated as absent rather than surfaced as an error.
func (s *ShardStore) ReadIndex() (models.MappingIndex, error) {
	data, err := os.ReadFile(filepath.Join(s.root, indexFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store %s: read index: %w", s.name, err)
	}

	var index models.MappingIndex
	if err := json.Unmarshal(data, &index); err != nil {
		s.logger.Warnf(providers.TypeStore, "Malformed index in store %s, treating as absent: %s", s.name, err)
		return nil, nil
	}
	return index, nil
}

// HasIndex reports whether an index file has ever been persisted.
// Feeds cold-start detection; no content read.
func (s *ShardStore) HasIndex() bool {
	_, err := os.Stat(filepath.Join(s.root, indexFileName))
	return err == nil
}

// RebuildIndex is the write-then-rebuild convenience used by the
// pipeline: full scan, then persist. Callers must not interleave it
// with in-flight writes.
func (s *ShardStore) RebuildIndex() (models.MappingIndex, error) {
	index, err := s.BuildIndex()
	if err != nil {
		return nil, err
	}
	if err := s.WriteIndex(index); err != nil {
		return nil, err
	}
	return index, nil
}
