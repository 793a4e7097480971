package scan

import (
	"context"
	"vtlink/internal/clients"
	"vtlink/internal/models"
	"vtlink/internal/providers"
)

// MappingChecker is the slice of the store layer the scanner needs:
// whether an identifier already has a confirmed mapping, and whether
// any index has ever been persisted.
type MappingChecker interface {
	HasBilibili(uid string) bool
	ColdStart() bool
}

// Scanner pulls ranked candidate lists from bilibili and trims them to
// the users not yet mapped. The bilibili client serializes its own
// calls, so the three fetchers respect the platform's rate ceiling
// even when invoked back to back.
type Scanner struct {
	bilibili clients.BilibiliAPI
	mappings MappingChecker
	logger   providers.Logger
}

func NewScanner(bilibili clients.BilibiliAPI, mappings MappingChecker, logger providers.Logger) *Scanner {
	return &Scanner{bilibili: bilibili, mappings: mappings, logger: logger}
}

func (s *Scanner) FetchVtuberRank(ctx context.Context, page int) ([]models.Candidate, error) {
	return s.bilibili.VtuberRank(ctx, page)
}

func (s *Scanner) FetchPopularRank(ctx context.Context, page int) ([]models.Candidate, error) {
	return s.bilibili.PopularRank(ctx, page)
}

func (s *Scanner) FetchRisingRank(ctx context.Context, page int) ([]models.Candidate, error) {
	return s.bilibili.RisingRank(ctx, page)
}

// FilterNewUsers drops candidates that already have a stored mapping,
// preserving the original order of the rest.
func (s *Scanner) FilterNewUsers(candidates []models.Candidate) []models.Candidate {
	fresh := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if s.mappings.HasBilibili(c.UID) {
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh
}

// DeduplicateUsers merges several list outputs, keeping the first
// occurrence of each UID. Lists are consumed in the order supplied and
// each list keeps its internal order.
func (s *Scanner) DeduplicateUsers(lists ...[]models.Candidate) []models.Candidate {
	seen := make(map[string]struct{})
	merged := make([]models.Candidate, 0)
	for _, list := range lists {
		for _, c := range list {
			if _, ok := seen[c.UID]; ok {
				continue
			}
			seen[c.UID] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}

// IsColdStart reports whether neither store has a persisted index yet.
// Upstream uses it to pick a broad initial sweep over the narrow
// incremental one.
func (s *Scanner) IsColdStart() bool {
	return s.mappings.ColdStart()
}

// Collect runs all three fetchers, dedupes across the overlapping
// lists and filters out known users. Fetch failures skip that one list
// so a single bad endpoint does not starve the sweep.
func (s *Scanner) Collect(ctx context.Context, page int) []models.Candidate {
	lists := make([][]models.Candidate, 0, 3)

	fetchers := []struct {
		name string
		fn   func(context.Context, int) ([]models.Candidate, error)
	}{
		{"vtuber_rank", s.FetchVtuberRank},
		{"popular_rank", s.FetchPopularRank},
		{"rising_rank", s.FetchRisingRank},
	}
	for _, f := range fetchers {
		list, err := f.fn(ctx, page)
		if err != nil {
			s.logger.Warnf(providers.TypeScan, "List %s failed: %s", f.name, err)
			continue
		}
		lists = append(lists, list)
	}

	return s.FilterNewUsers(s.DeduplicateUsers(lists...))
}
