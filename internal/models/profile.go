package models

// BilibiliProfile is the subset of a bilibili user profile the engine
// cares about.
type BilibiliProfile struct {
	UID       string `json:"mid"`
	Name      string `json:"name"`
	Avatar    string `json:"face"`
	Sign      string `json:"sign"`
	Followers int    `json:"follower"`
}

// YoutubeChannel is the subset of a YouTube channel the engine cares
// about. Verified reflects the platform's own verification badge.
type YoutubeChannel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
	Subscribers int    `json:"subscriberCount"`
	Verified    bool   `json:"verified"`
}

// VideoItem is one entry of a recent-content sample from either platform.
type VideoItem struct {
	Title string `json:"title"`
}

// Candidate is one entry of a ranked list from bilibili, before any
// verification has been attempted.
type Candidate struct {
	UID  string `json:"mid"`
	Name string `json:"name"`
}

// WorkItem is one unit of pipeline input. YoutubeChannelID may be empty,
// in which case the pipeline resolves it by channel search. TicketRef
// carries the submission ticket that requested this pair, if any.
type WorkItem struct {
	BilibiliUID      string `json:"bilibiliUid"`
	YoutubeChannelID string `json:"youtubeChannelId,omitempty"`
	TicketRef        string `json:"ticketRef,omitempty"`
}
