package verify

import (
	"context"
	"fmt"
	"strings"
	"time"
	"vtlink/internal/clients"
	"vtlink/internal/models"
	"vtlink/internal/providers"
	"vtlink/internal/structures"
)

const (
	nameMatchThreshold  = 0.8
	namePartialFloor    = 0.6
	titleMatchThreshold = 0.7
	level3SuccessFloor  = 0.7
	ratioFloor          = 0.5
	ratioCeil           = 2.0
)

// targetDomains are YouTube link patterns looked for in a bilibili bio.
var targetDomains = []string{"youtube.com/", "youtu.be/"}

// sourceDomains are bilibili link patterns and short names looked for
// in a YouTube channel description.
var sourceDomains = []string{"bilibili.com/", "b23.tv/", "space.bilibili.com", "b站", "哔哩哔哩"}

// Verifier scores a (bilibili UID, YouTube channel) pair through an
// escalating cascade. Level 1 is the strongest signal, level 4 means
// the pair goes to manual review.
type Verifier struct {
	bilibili    clients.BilibiliAPI
	youtube     clients.YoutubeAPI
	videoSample int
	logger      providers.Logger
	now         func() time.Time
}

func NewVerifier(bilibili clients.BilibiliAPI, youtube clients.YoutubeAPI, conf *structures.Config, logger providers.Logger) *Verifier {
	sample := conf.Scanner.VideoSample
	if sample <= 0 || sample > 10 {
		sample = 10
	}
	return &Verifier{
		bilibili:    bilibili,
		youtube:     youtube,
		videoSample: sample,
		logger:      logger,
		now:         time.Now,
	}
}

// Verify never returns an error: every failure is folded into a
// level-4, zero-confidence result whose reasons name the failure, so a
// batch run survives any one bad candidate.
func (v *Verifier) Verify(ctx context.Context, uid, channelID string) *models.VerificationResult {
	res := &models.VerificationResult{Level: 4}

	profile, err := v.bilibili.Profile(ctx, uid)
	if err != nil {
		return v.failed(res, err)
	}
	channel, err := v.youtube.Channel(ctx, channelID)
	if err != nil {
		return v.failed(res, err)
	}

	res.Metadata.BilibiliFollowers = profile.Followers
	res.Metadata.YoutubeSubscribers = channel.Subscribers
	res.Metadata.YoutubeVerified = channel.Verified

	// Level 1: platform-verified identity plus name match.
	if channel.Verified {
		sim := NameSimilarity(profile.Name, channel.Title)
		res.Metadata.UsernameSimilarity = sim
		if sim >= nameMatchThreshold {
			res.Success = true
			res.Level = 1
			res.Confidence = 0.95 + sim*0.05
			res.Reasons = append(res.Reasons,
				fmt.Sprintf("platform-verified channel, name similarity %.2f", sim))
			res.Mapping = v.buildMapping(profile, channel, res, 1)
			return res
		}
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("platform-verified channel but name similarity %.2f below %.2f", sim, nameMatchThreshold))
	} else {
		res.Reasons = append(res.Reasons, "channel not platform-verified")
	}

	// Level 2: cross-platform bio reference, either direction.
	if bioCrossReference(profile, channel, channelID, uid) {
		res.Metadata.BioMatch = true
		res.Success = true
		res.Level = 2
		res.Confidence = 0.85
		res.Reasons = append(res.Reasons, "bio cross-reference between platforms")
		res.Mapping = v.buildMapping(profile, channel, res, 2)
		return res
	}
	res.Reasons = append(res.Reasons, "no bio cross-reference")

	// Level 3: weighted similarity scoring.
	sim := NameSimilarity(profile.Name, channel.Title)
	res.Metadata.UsernameSimilarity = sim

	confidence := 0.0
	switch {
	case sim >= nameMatchThreshold:
		confidence += 0.4
		res.Reasons = append(res.Reasons, fmt.Sprintf("name similarity %.2f (+0.40)", sim))
	case sim >= namePartialFloor:
		confidence += 0.2
		res.Reasons = append(res.Reasons, fmt.Sprintf("name similarity %.2f (+0.20)", sim))
	default:
		res.Reasons = append(res.Reasons, fmt.Sprintf("name similarity %.2f, no score", sim))
	}

	sourceVideos, err := v.bilibili.RecentVideos(ctx, uid, v.videoSample)
	if err != nil {
		return v.failed(res, err)
	}
	targetVideos, err := v.youtube.RecentVideos(ctx, channelID, v.videoSample)
	if err != nil {
		return v.failed(res, err)
	}

	matches := countMatchingTitles(sourceVideos, targetVideos)
	res.Metadata.MatchingVideos = matches
	switch {
	case matches >= 3:
		confidence += 0.3
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d matching video titles (+0.30)", matches))
	case matches >= 1:
		confidence += 0.15
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d matching video titles (+0.15)", matches))
	default:
		res.Reasons = append(res.Reasons, "no matching video titles")
	}

	// Audience ratio. A missing count disables the check; it does not
	// fail the tier.
	if profile.Followers > 0 && channel.Subscribers > 0 {
		ratio := float64(channel.Subscribers) / float64(profile.Followers)
		if ratio >= ratioFloor && ratio <= ratioCeil {
			confidence += 0.15
			res.Reasons = append(res.Reasons, fmt.Sprintf("audience ratio %.2f within bounds (+0.15)", ratio))
		} else {
			res.Reasons = append(res.Reasons, fmt.Sprintf("audience ratio %.2f out of bounds", ratio))
		}
	} else {
		res.Reasons = append(res.Reasons, "audience count missing, ratio check skipped")
	}

	res.Confidence = confidence
	if confidence >= level3SuccessFloor {
		res.Success = true
		res.Level = 3
		res.Reasons = append(res.Reasons, fmt.Sprintf("combined confidence %.2f", confidence))
		res.Mapping = v.buildMapping(profile, channel, res, 3)
		return res
	}

	// Level 4: nothing was conclusive.
	res.Reasons = append(res.Reasons, "manual review required")
	v.logger.Debugf(providers.TypeVerify, "Pair %s/%s needs manual review, confidence %.2f", uid, channelID, confidence)
	return res
}

func (v *Verifier) failed(res *models.VerificationResult, err error) *models.VerificationResult {
	res.Success = false
	res.Level = 4
	res.Confidence = 0
	res.Reasons = append(res.Reasons, err.Error(), "manual review required")
	v.logger.Warnf(providers.TypeVerify, "Verification aborted: %s", err)
	return res
}

func bioCrossReference(profile *models.BilibiliProfile, channel *models.YoutubeChannel, channelID, uid string) bool {
	bio := strings.ToLower(profile.Sign)
	if strings.Contains(bio, strings.ToLower(channelID)) {
		return true
	}
	for _, domain := range targetDomains {
		if strings.Contains(bio, domain) {
			return true
		}
	}

	desc := strings.ToLower(channel.Description)
	if strings.Contains(desc, strings.ToLower(uid)) {
		return true
	}
	for _, domain := range sourceDomains {
		if strings.Contains(desc, domain) {
			return true
		}
	}
	return false
}

// countMatchingTitles counts source items with at least one target
// title of similarity >= 0.7. Each source item counts at most once;
// matching is independent per source item, so one strong target title
// can satisfy several source items.
func countMatchingTitles(source, target []models.VideoItem) int {
	matches := 0
	for _, sv := range source {
		for _, tv := range target {
			if Similarity(sv.Title, tv.Title) >= titleMatchThreshold {
				matches++
				break
			}
		}
	}
	return matches
}

func (v *Verifier) buildMapping(profile *models.BilibiliProfile, channel *models.YoutubeChannel, res *models.VerificationResult, level int) *models.Mapping {
	return &models.Mapping{
		BilibiliUID:      profile.UID,
		BilibiliUsername: profile.Name,
		BilibiliAvatar:   profile.Avatar,
		YoutubeChannelID: channel.ID,
		YoutubeChannel:   channel.Title,
		YoutubeAvatar:    channel.Avatar,
		Level:            level,
		VerifiedAt:       v.now(),
		VerifiedBy:       models.VerifiedByAuto,
		Metadata:         res.Metadata,
	}
}
