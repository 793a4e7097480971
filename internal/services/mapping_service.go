package services

import (
	"fmt"
	"sync"
	"time"
	"vtlink/internal/models"
	"vtlink/internal/providers"
	"vtlink/internal/store"
	"vtlink/internal/structures"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type MappingServiceInterface interface {
	LookupByBilibili(uid string) (*models.Mapping, error)
	LookupByYoutube(id string) (*models.Mapping, error)
	HasBilibili(uid string) bool
	ColdStart() bool
	SaveMappings(mappings []*models.Mapping) error
	DeleteMapping(uid string) (*models.Mapping, error)
	SubmitTicket(req *models.SubmissionRequest) (*models.Ticket, error)
	DrainTickets() []models.Ticket
	PendingTickets() int
	MappingCount() int
}

// MappingService owns both shard stores and the ticket queue. It is
// the single read client the rest of the daemon goes through, built
// once and passed around explicitly.
type MappingService struct {
	bilibiliStore *store.ShardStore
	youtubeStore  *store.ShardStore
	logger        providers.Logger

	ticketMu sync.Mutex
	tickets  []models.Ticket

	mappingCount atomic.Int64
}

// Stores bundles the two directionally keyed shard stores so wire has
// a single provider for the pair.
type Stores struct {
	Bilibili *store.ShardStore
	Youtube  *store.ShardStore
}

func NewStores(conf *structures.Config, logger providers.Logger) (*Stores, error) {
	cfg := store.ShardConfig{
		Level1Length: conf.Store.Level1Length,
		Level2Length: conf.Store.Level2Length,
		HashLength:   conf.Store.HashLength,
	}
	bilibili, err := store.NewShardStore(conf.Store.BilibiliDir, "bilibili", cfg, logger)
	if err != nil {
		return nil, err
	}
	youtube, err := store.NewShardStore(conf.Store.YoutubeDir, "youtube", cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Stores{Bilibili: bilibili, Youtube: youtube}, nil
}

func NewMappingService(stores *Stores, logger providers.Logger) MappingServiceInterface {
	ms := &MappingService{
		bilibiliStore: stores.Bilibili,
		youtubeStore:  stores.Youtube,
		logger:        logger,
	}

	// Seed the gauge from the last persisted index. The index holds
	// two keys per record, one per direction, so halve it.
	if index, err := stores.Bilibili.ReadIndex(); err == nil && index != nil {
		ms.mappingCount.Store(int64(len(index) / 2))
	}
	return ms
}

func (ms *MappingService) LookupByBilibili(uid string) (*models.Mapping, error) {
	return ms.bilibiliStore.Read(uid)
}

func (ms *MappingService) LookupByYoutube(id string) (*models.Mapping, error) {
	return ms.youtubeStore.Read(id)
}

func (ms *MappingService) HasBilibili(uid string) bool {
	return ms.bilibiliStore.Has(uid)
}

// ColdStart is true only while neither store has ever persisted an
// index, i.e. before the first completed sweep.
func (ms *MappingService) ColdStart() bool {
	return !ms.bilibiliStore.HasIndex() && !ms.youtubeStore.HasIndex()
}

// SaveMappings writes every mapping to both stores, then rebuilds and
// persists both indexes. All record writes complete before either
// index rebuild starts; interleaving them would build an index missing
// the in-flight writes.
func (ms *MappingService) SaveMappings(mappings []*models.Mapping) error {
	if len(mappings) == 0 {
		return nil
	}

	bili := make([]store.Entry, 0, len(mappings))
	yt := make([]store.Entry, 0, len(mappings))
	for _, m := range mappings {
		bili = append(bili, store.Entry{ID: m.BilibiliUID, Record: m})
		yt = append(yt, store.Entry{ID: m.YoutubeChannelID, Record: m})
	}

	if err := ms.bilibiliStore.BatchWrite(bili); err != nil {
		return fmt.Errorf("persist mappings: %w", err)
	}
	if err := ms.youtubeStore.BatchWrite(yt); err != nil {
		return fmt.Errorf("persist mappings: %w", err)
	}

	index, err := ms.bilibiliStore.RebuildIndex()
	if err != nil {
		return err
	}
	if _, err := ms.youtubeStore.RebuildIndex(); err != nil {
		return err
	}

	ms.mappingCount.Store(int64(len(index) / 2))
	ms.logger.Infof(providers.TypeStore, "Persisted %d mappings, %d total indexed", len(mappings), len(index)/2)
	return nil
}

// DeleteMapping tombstones the record in both stores and returns it so
// the caller can drop any cached copies. Index entries keep pointing at
// the emptied files until the next rebuild, which is fine because
// readers treat empty content as absent. Returns nil for an unknown
// uid.
func (ms *MappingService) DeleteMapping(uid string) (*models.Mapping, error) {
	m, err := ms.bilibiliStore.Read(uid)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	if err := ms.bilibiliStore.Delete(m.BilibiliUID); err != nil {
		return nil, err
	}
	if err := ms.youtubeStore.Delete(m.YoutubeChannelID); err != nil {
		return nil, err
	}
	ms.mappingCount.Dec()
	ms.logger.Infof(providers.TypeStore, "Unlinked mapping %s/%s", m.BilibiliUID, m.YoutubeChannelID)
	return m, nil
}

// SubmitTicket validates nothing here — the controller has already run
// the request through the validator. It files a ticket and returns it.
func (ms *MappingService) SubmitTicket(req *models.SubmissionRequest) (*models.Ticket, error) {
	ticket := models.Ticket{
		Ref: uuid.NewString(),
		Item: models.WorkItem{
			BilibiliUID:      req.BilibiliUID,
			YoutubeChannelID: req.YoutubeChannelID,
		},
		SubmitterEmail: req.SubmitterEmail,
		Notes:          req.Notes,
		SubmittedAt:    time.Now(),
	}
	ticket.Item.TicketRef = ticket.Ref

	ms.ticketMu.Lock()
	ms.tickets = append(ms.tickets, ticket)
	ms.ticketMu.Unlock()

	ms.logger.Infof(providers.TypeApp, "Filed ticket %s for pair %s/%s", ticket.Ref, req.BilibiliUID, req.YoutubeChannelID)
	return &ticket, nil
}

// DrainTickets hands the queued tickets to the caller and empties the
// queue. Called by the pipeline at the start of each sweep.
func (ms *MappingService) DrainTickets() []models.Ticket {
	ms.ticketMu.Lock()
	defer ms.ticketMu.Unlock()
	drained := ms.tickets
	ms.tickets = nil
	return drained
}

func (ms *MappingService) PendingTickets() int {
	ms.ticketMu.Lock()
	defer ms.ticketMu.Unlock()
	return len(ms.tickets)
}

func (ms *MappingService) MappingCount() int {
	return int(ms.mappingCount.Load())
}
