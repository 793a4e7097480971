package pipeline

import (
	"context"
	"vtlink/internal/clients"
	"vtlink/internal/models"
	"vtlink/internal/providers"
	"vtlink/internal/services"
	"vtlink/internal/verify"
)

// Runner drives one batch through the engine: resolve missing target
// ids, verify every pair, persist the confirmed mappings to both
// stores, rebuild both indexes. Verification failures never abort a
// batch; persistence failures do surface so the caller can retry.
type Runner struct {
	verifier *verify.Verifier
	bilibili clients.BilibiliAPI
	youtube  clients.YoutubeAPI
	service  services.MappingServiceInterface
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger
}

func NewRunner(verifier *verify.Verifier, bilibili clients.BilibiliAPI, youtube clients.YoutubeAPI, service services.MappingServiceInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *Runner {
	return &Runner{
		verifier: verifier,
		bilibili: bilibili,
		youtube:  youtube,
		service:  service,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run processes the work items in order and returns one result per
// item, each annotated with the originating ticket ref. Confirmed
// mappings are written after the whole batch has been verified, and
// the indexes are rebuilt only after every write has completed.
func (r *Runner) Run(ctx context.Context, items []models.WorkItem) ([]*models.VerificationResult, error) {
	results := make([]*models.VerificationResult, 0, len(items))
	confirmed := make([]*models.Mapping, 0)

	for _, item := range items {
		res := r.runOne(ctx, item)
		results = append(results, res)
		if res.Success && res.Mapping != nil {
			confirmed = append(confirmed, res.Mapping)
		}
	}

	if err := r.service.SaveMappings(confirmed); err != nil {
		return results, err
	}
	for range confirmed {
		r.metrics.IncStoreWrites("bilibili")
		r.metrics.IncStoreWrites("youtube")
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, item models.WorkItem) *models.VerificationResult {
	channelID := item.YoutubeChannelID
	if channelID == "" {
		resolved, err := r.resolveChannel(ctx, item.BilibiliUID)
		if err != nil || resolved == "" {
			res := &models.VerificationResult{
				Level:     4,
				TicketRef: item.TicketRef,
				Reasons:   []string{"no candidate channel found", "manual review required"},
			}
			if err != nil {
				res.Reasons[0] = err.Error()
			}
			r.metrics.IncVerifications(res.Level, false)
			r.metrics.ObserveConfidence(0)
			return res
		}
		channelID = resolved
	}

	res := r.verifier.Verify(ctx, item.BilibiliUID, channelID)
	res.TicketRef = item.TicketRef
	if item.TicketRef != "" {
		res.Metadata.TicketRef = item.TicketRef
		if res.Mapping != nil {
			res.Mapping.Metadata.TicketRef = item.TicketRef
		}
	}

	r.metrics.IncVerifications(res.Level, res.Success)
	r.metrics.ObserveConfidence(res.Confidence)
	r.logger.Infof(providers.TypeVerify, "Verified %s/%s: level=%d success=%t confidence=%.2f",
		item.BilibiliUID, channelID, res.Level, res.Success, res.Confidence)
	return res
}

// resolveChannel finds the most likely YouTube channel for a bilibili
// user by searching for the user's display name. The verifier fetches
// the profile again afterwards; that endpoint is cheap compared to a
// wasted manual review.
func (r *Runner) resolveChannel(ctx context.Context, uid string) (string, error) {
	profile, err := r.bilibili.Profile(ctx, uid)
	if err != nil {
		return "", err
	}
	return r.youtube.SearchChannel(ctx, profile.Name)
}
