package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"
	"vtlink/internal/models"
	"vtlink/internal/providers"
	"vtlink/internal/scan"
	"vtlink/internal/services"
	"vtlink/internal/store"
	"vtlink/internal/structures"

	"github.com/roylee0704/gron"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Sweep()
	Snapshot() error
}

// Scheduler ticks the pipeline: a periodic sweep that drains submitted
// tickets and scans ranked lists for new candidates, plus a periodic
// snapshot of the bilibili-keyed store. A mutex keeps sweeps from
// overlapping when a run outlasts the interval.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	scanner  *scan.Scanner
	runner   *Runner
	service  services.MappingServiceInterface
	snapshot *store.Snapshotter
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface,
	scanner *scan.Scanner, runner *Runner, service services.MappingServiceInterface, stores *services.Stores) (SchedulerInterface, error) {

	compressor, err := store.NewZstdCompressor()
	if err != nil {
		return nil, err
	}
	snapshotter := store.NewSnapshotter(stores.Bilibili, func(m *models.Mapping) string {
		return m.BilibiliUID
	}, compressor, logger)

	return &Scheduler{
		config:   config,
		logger:   logger,
		metrics:  metrics,
		scanner:  scanner,
		runner:   runner,
		service:  service,
		snapshot: snapshotter,
	}, nil
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Scanner.SweepInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		s.Sweep()
	})

	if s.config.Store.SnapshotDir != "" {
		s.cron.AddFunc(gron.Every(24*time.Hour), func() {
			if err := s.Snapshot(); err != nil {
				s.logger.Errorf(providers.TypeStore, "Snapshot failed: %s", err)
			}
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep runs one full pipeline pass: tickets first, then scanned
// candidates up to the per-sweep cap. Cold start widens the scan to
// more ranked pages.
func (s *Scheduler) Sweep() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	ctx := context.Background()

	// One work item per bilibili identity. Tickets are taken first so a
	// UID that is both submitted and ranked keeps its ticket ref.
	items := make([]models.WorkItem, 0)
	seen := make(map[string]struct{})
	for _, ticket := range s.service.DrainTickets() {
		if _, ok := seen[ticket.Item.BilibiliUID]; ok {
			continue
		}
		seen[ticket.Item.BilibiliUID] = struct{}{}
		items = append(items, ticket.Item)
	}

	pages := 1
	if s.scanner.IsColdStart() {
		pages = 3
		s.logger.Infof(providers.TypeScan, "Cold start detected, broad sweep")
	}
	for page := 1; page <= pages; page++ {
		candidates := s.scanner.Collect(ctx, page)
		s.metrics.IncScannedCandidates(len(candidates))
		for _, c := range candidates {
			if _, ok := seen[c.UID]; ok {
				continue
			}
			seen[c.UID] = struct{}{}
			items = append(items, models.WorkItem{BilibiliUID: c.UID})
		}
	}

	if limit := s.config.Scanner.MaxPerSweep; limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	if len(items) == 0 {
		s.logger.Debugf(providers.TypeScan, "Sweep found nothing to do")
		return
	}

	s.logger.Infof(providers.TypeScan, "Sweep starting with %d work items", len(items))
	results, err := s.runner.Run(ctx, items)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Sweep persistence failed: %s", err)
	}

	confirmed := 0
	for _, res := range results {
		if res.Success {
			confirmed++
		}
	}
	s.metrics.ObserveSweepDuration(time.Since(start))
	s.logger.Infof(providers.TypeScan, "Sweep done: %d/%d confirmed in %s", confirmed, len(results), time.Since(start))
}

// Snapshot archives the bilibili-keyed store; the YouTube store is a
// mirror of the same records and can be rebuilt from the archive.
func (s *Scheduler) Snapshot() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	fileName := filepath.Join(s.config.Store.SnapshotDir, "mappings.snap.zst")
	if err := s.snapshot.Save(fileName); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeStore, "Snapshot written to %s", fileName)
	return nil
}
