package models

import "time"

const (
	VerifiedByAuto   = "auto"
	VerifiedByManual = "manual"
)

// Mapping is the persisted link between one bilibili identity and one
// YouTube identity. The same record is stored in both shard stores,
// keyed by BilibiliUID in one and YoutubeChannelID in the other.
type Mapping struct {
	BilibiliUID      string               `json:"bilibiliUid"`
	BilibiliUsername string               `json:"bilibiliUsername"`
	BilibiliAvatar   string               `json:"bilibiliAvatar,omitempty"`
	YoutubeChannelID string               `json:"youtubeChannelId"`
	YoutubeChannel   string               `json:"youtubeChannelName"`
	YoutubeAvatar    string               `json:"youtubeAvatar,omitempty"`
	Level            int                  `json:"verificationLevel"`
	VerifiedAt       time.Time            `json:"verifiedAt"`
	VerifiedBy       string               `json:"verifiedBy"`
	Metadata         VerificationMetadata `json:"metadata"`
}

// VerificationMetadata is the evidence trail collected while the
// verification cascade runs. Everything is optional; fields are filled
// in as the levels that produce them are attempted.
type VerificationMetadata struct {
	BilibiliFollowers  int     `json:"bilibiliFollowers,omitempty"`
	YoutubeSubscribers int     `json:"youtubeSubscribers,omitempty"`
	AvatarSimilarity   float64 `json:"avatarSimilarity,omitempty"`
	UsernameSimilarity float64 `json:"usernameSimilarity,omitempty"`
	BioMatch           bool    `json:"bioMatch,omitempty"`
	YoutubeVerified    bool    `json:"youtubeVerified,omitempty"`
	MatchingVideos     int     `json:"matchingVideos,omitempty"`
	TicketRef          string  `json:"ticketRef,omitempty"`
}

// VerificationResult is the outcome of a single verification attempt.
// It is never persisted as-is; Mapping is non-nil only on success.
type VerificationResult struct {
	Success    bool                 `json:"success"`
	Level      int                  `json:"level"`
	Confidence float64              `json:"confidence"`
	Reasons    []string             `json:"reasons"`
	Metadata   VerificationMetadata `json:"metadata"`
	Mapping    *Mapping             `json:"mapping,omitempty"`
	TicketRef  string               `json:"ticketRef,omitempty"`
}

// MappingIndex maps any known identifier, from either platform, to the
// shard-relative path of its record file. Derived state: rebuilt from
// the stored files, never authoritative for record content.
type MappingIndex map[string]string
