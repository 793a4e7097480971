package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"vtlink/internal/models"
	"vtlink/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ShardStore {
	s, err := NewShardStore(filepath.Join(t.TempDir(), "bilibili"), "bilibili", DefaultShardConfig(), &testutil.MockLogger{})
	require.NoError(t, err)
	return s
}

func sampleMapping(uid, channelID string) *models.Mapping {
	return &models.Mapping{
		BilibiliUID:      uid,
		BilibiliUsername: "user-" + uid,
		YoutubeChannelID: channelID,
		YoutubeChannel:   "channel-" + channelID,
		Level:            2,
		VerifiedAt:       time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC),
		VerifiedBy:       models.VerifiedByAuto,
		Metadata: models.VerificationMetadata{
			BilibiliFollowers:  1000,
			YoutubeSubscribers: 800,
			BioMatch:           true,
		},
	}
}

func TestShardConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultShardConfig().Validate())
	assert.Error(t, ShardConfig{Level1Length: 4, Level2Length: 5, HashLength: 8}.Validate())
	assert.Error(t, ShardConfig{Level1Length: 0, Level2Length: 2, HashLength: 8}.Validate())
}

func TestShardPath_Shape(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"123456", "UCxxxxx", "", "白上吹雪"} {
		p := s.ShardPath(id)
		parts := strings.Split(p, string(filepath.Separator))
		require.Len(t, parts, 3)
		assert.Len(t, parts[0], 2)
		assert.Len(t, parts[1], 2)
		assert.True(t, strings.HasSuffix(parts[2], ".json"))
		// stable across calls
		assert.Equal(t, p, s.ShardPath(id))
	}
}

func TestHash_DeterministicAndTruncated(t *testing.T) {
	s := newTestStore(t)
	h := s.Hash("123456")
	assert.Len(t, h, 8)
	assert.Equal(t, h, s.Hash("123456"))
	assert.NotEqual(t, h, s.Hash("654321"))
}

func TestWriteRead_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	m := sampleMapping("123456", "UCxxxxx")

	require.NoError(t, s.Write("123456", m))

	got, err := s.Read("123456")
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestRead_NeverWrittenIsAbsent(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Read("nosuch")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWrite_LastWriteWins(t *testing.T) {
	s := newTestStore(t)
	m1 := sampleMapping("1", "UCa")
	m2 := sampleMapping("1", "UCb")
	m2.Level = 3

	require.NoError(t, s.Write("1", m1))
	require.NoError(t, s.Write("1", m2))

	got, err := s.Read("1")
	require.NoError(t, err)
	assert.Equal(t, m2, got)
}

func TestHas(t *testing.T) {
	s := newTestStore(t)
	assert.False(t, s.Has("1"))
	require.NoError(t, s.Write("1", sampleMapping("1", "UCa")))
	assert.True(t, s.Has("1"))
}

func TestDelete_TombstonesInPlace(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write("1", sampleMapping("1", "UCa")))

	require.NoError(t, s.Delete("1"))

	// path still exists but reads as absent
	_, err := os.Stat(filepath.Join(s.Root(), s.ShardPath("1")))
	assert.NoError(t, err)
	got, err := s.Read("1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, s.Has("1"))
}

func TestDelete_MissingIsNoop(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Delete("never"))
}

func TestRead_CorruptFileIsAbsent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Write("1", sampleMapping("1", "UCa")))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), s.ShardPath("1")), []byte("{not json"), 0644))

	got, err := s.Read("1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBatchWrite_AllRecordsLand(t *testing.T) {
	s := newTestStore(t)

	entries := make([]Entry, 0, 20)
	for i := 0; i < 20; i++ {
		uid := string(rune('a' + i))
		entries = append(entries, Entry{ID: uid, Record: sampleMapping(uid, "UC"+uid)})
	}
	require.NoError(t, s.BatchWrite(entries))

	for _, e := range entries {
		got, err := s.Read(e.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, e.Record.BilibiliUID, got.BilibiliUID)
	}
}
