package models

import "time"

// SubmissionRequest is a user-submitted pair for verification.
// Identifier patterns are enforced before any ticket is filed.
type SubmissionRequest struct {
	BilibiliUID      string `json:"bilibiliUid" validate:"required|regexp:^[0-9]+$" message:"regexp:bilibiliUid must be digits only"`
	YoutubeChannelID string `json:"youtubeChannelId" validate:"required|regexp:^UC[0-9A-Za-z_-]{22}$" message:"regexp:youtubeChannelId must match the UC channel id pattern"`
	SubmitterEmail   string `json:"submitterEmail,omitempty" validate:"email"`
	Notes            string `json:"notes,omitempty" validate:"maxLen:500"`
}

// Ticket is a filed work item waiting for the next pipeline sweep.
type Ticket struct {
	Ref            string    `json:"ref"`
	Item           WorkItem  `json:"item"`
	SubmitterEmail string    `json:"submitterEmail,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}
