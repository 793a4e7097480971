package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"vtlink/internal/models"
	"vtlink/internal/providers"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	z.encoder.Close()
}

func NewZstdCompressor() (CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

// snapshotFile is the on-disk format of a store backup: every live
// record keyed by its shard-relative path, compressed as one blob.
type snapshotFile struct {
	Store   string                     `json:"store"`
	TakenAt time.Time                  `json:"taken_at"`
	Records map[string]*models.Mapping `json:"records"`
}

// Snapshotter periodically archives a store's live records into a
// single compressed file, giving an offline restore point the sharded
// tree itself does not provide.
type Snapshotter struct {
	store      *ShardStore
	keyFn      func(*models.Mapping) string
	compressor CompressorInterface
	logger     providers.Logger
}

// keyFn extracts the identifier this store is keyed by from a record,
// so Restore can re-shard records without guessing the direction.
func NewSnapshotter(store *ShardStore, keyFn func(*models.Mapping) string, compressor CompressorInterface, logger providers.Logger) *Snapshotter {
	return &Snapshotter{store: store, keyFn: keyFn, compressor: compressor, logger: logger}
}

// Save writes a compressed snapshot of all live records to fileName.
// Tombstones and unparsable files are excluded.
func (sn *Snapshotter) Save(fileName string) error {
	snap := snapshotFile{
		Store:   sn.store.name,
		TakenAt: time.Now(),
		Records: make(map[string]*models.Mapping),
	}

	err := filepath.WalkDir(sn.store.root, func(path string, d fs.DirEntry, err error) error {
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
			return nil
		}
		rel, err := filepath.Rel(sn.store.root, path)
		if err != nil {
			return err
		}
		snap.Records[rel] = record
		return nil
	})
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", sn.store.name, err)
	}

	jsonData, err := json.Marshal(&snap)
	if err != nil {
		return err
	}
	compressed, err := sn.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return os.Rename(tmpFile, fileName)
}

// Restore loads a snapshot and writes every record back into the store.
// Missing snapshot files are not an error so a fresh deployment can
// call this unconditionally at startup.
func (sn *Snapshotter) Restore(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := sn.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("snapshot %s: decompress: %w", sn.store.name, err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		return fmt.Errorf("snapshot %s: parse: %w", sn.store.name, err)
	}

	entries := make([]Entry, 0, len(snap.Records))
	for _, record := range snap.Records {
		entries = append(entries, Entry{ID: sn.keyFn(record), Record: record})
	}
	if err := sn.store.BatchWrite(entries); err != nil {
		return err
	}

	sn.logger.Infof(providers.TypeStore, "Restored %d records into store %s from %s",
		len(entries), sn.store.name, fileName)
	return nil
}

func (sn *Snapshotter) Close() {
	sn.compressor.Close()
}
