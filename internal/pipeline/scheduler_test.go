package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"vtlink/internal/models"
	"vtlink/internal/scan"
	"vtlink/internal/services"
	"vtlink/internal/structures"
	"vtlink/internal/testutil"
	"vtlink/internal/verify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schedulerFixture struct {
	scheduler SchedulerInterface
	bili      *testutil.MockBilibili
	yt        *testutil.MockYoutube
	service   services.MappingServiceInterface
	metrics   *testutil.MockMetrics
}

func newSchedulerFixture(t *testing.T, mutate func(*structures.Config)) *schedulerFixture {
	dir := t.TempDir()
	conf := &structures.Config{
		Store: structures.StoreConfig{
			BilibiliDir:  filepath.Join(dir, "bilibili"),
			YoutubeDir:   filepath.Join(dir, "youtube"),
			Level1Length: 2,
			Level2Length: 2,
			HashLength:   8,
			SnapshotDir:  filepath.Join(dir, "snapshots"),
		},
		Scanner: structures.ScannerConfig{
			SweepInterval: time.Hour,
			VideoSample:   5,
		},
	}
	if mutate != nil {
		mutate(conf)
	}
	require.NoError(t, os.MkdirAll(conf.Store.SnapshotDir, 0o755))

	logger := &testutil.MockLogger{}
	stores, err := services.NewStores(conf, logger)
	require.NoError(t, err)
	service := services.NewMappingService(stores, logger)

	bili := &testutil.MockBilibili{Profiles: map[string]*models.BilibiliProfile{}}
	yt := &testutil.MockYoutube{Channels: map[string]*models.YoutubeChannel{}}
	metrics := &testutil.MockMetrics{}
	verifier := verify.NewVerifier(bili, yt, conf, logger)
	scanner := scan.NewScanner(bili, service, logger)
	runner := NewRunner(verifier, bili, yt, service, metrics, logger)

	scheduler, err := NewScheduler(conf, logger, metrics, scanner, runner, service, stores)
	require.NoError(t, err)
	return &schedulerFixture{
		scheduler: scheduler,
		bili:      bili,
		yt:        yt,
		service:   service,
		metrics:   metrics,
	}
}

func (f *schedulerFixture) addVerifiedPair(uid, channelID, name string) {
	f.bili.Profiles[uid] = &models.BilibiliProfile{UID: uid, Name: name, Followers: 1000}
	f.yt.Channels[channelID] = &models.YoutubeChannel{
		ID:          channelID,
		Title:       name,
		Subscribers: 1000,
		Verified:    true,
	}
}

func TestSweep_DrainsTicketsAndPersists(t *testing.T) {
	f := newSchedulerFixture(t, nil)
	f.addVerifiedPair("100", "UCqueued", "Amane")
	_, err := f.service.SubmitTicket(&models.SubmissionRequest{
		BilibiliUID:      "100",
		YoutubeChannelID: "UCqueued",
	})
	require.NoError(t, err)

	f.scheduler.Sweep()

	assert.Equal(t, 0, f.service.PendingTickets())
	saved, err := f.service.LookupByBilibili("100")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.Metadata.TicketRef)
}

func TestSweep_ScansRankedCandidates(t *testing.T) {
	f := newSchedulerFixture(t, nil)
	f.addVerifiedPair("200", "UCranked", "Kohaku")
	f.bili.Vtuber = []models.Candidate{{UID: "200", Name: "Kohaku"}}
	f.yt.SearchResult = "UCranked"

	f.scheduler.Sweep()

	saved, err := f.service.LookupByBilibili("200")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Positive(t, f.metrics.Scanned)
}

func TestSweep_DeduplicatesTicketAndRankedOverlap(t *testing.T) {
	f := newSchedulerFixture(t, nil)
	f.addVerifiedPair("700", "UCboth", "Suzune")
	f.yt.SearchResult = "UCboth"
	f.bili.Vtuber = []models.Candidate{{UID: "700", Name: "Suzune"}}
	ticket, err := f.service.SubmitTicket(&models.SubmissionRequest{
		BilibiliUID:      "700",
		YoutubeChannelID: "UCboth",
	})
	require.NoError(t, err)

	f.scheduler.Sweep()

	// The identity is verified once, through its ticket, not once per
	// list it appeared on.
	require.Len(t, f.metrics.Confidences, 1)
	saved, err := f.service.LookupByBilibili("700")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, ticket.Ref, saved.Metadata.TicketRef)
}

func TestSweep_HonorsPerSweepCap(t *testing.T) {
	f := newSchedulerFixture(t, func(conf *structures.Config) {
		conf.Scanner.MaxPerSweep = 1
	})
	f.addVerifiedPair("300", "UCa", "First")
	f.addVerifiedPair("301", "UCb", "Second")
	f.bili.Vtuber = []models.Candidate{
		{UID: "300", Name: "First"},
		{UID: "301", Name: "Second"},
	}
	f.yt.SearchResult = "UCa"

	f.scheduler.Sweep()

	assert.Len(t, f.metrics.Confidences, 1)
}

func TestSnapshot_WritesArchive(t *testing.T) {
	var snapshotDir string
	f := newSchedulerFixture(t, func(conf *structures.Config) {
		snapshotDir = conf.Store.SnapshotDir
	})
	require.NoError(t, f.service.SaveMappings([]*models.Mapping{
		{BilibiliUID: "1", YoutubeChannelID: "UCa", Level: 1, VerifiedBy: models.VerifiedByAuto},
	}))

	require.NoError(t, f.scheduler.Snapshot())

	info, err := os.Stat(filepath.Join(snapshotDir, "mappings.snap.zst"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
