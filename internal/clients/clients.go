package clients

import (
	"context"
	"fmt"
	"vtlink/internal/models"
)

// BilibiliAPI is the source-platform collaborator. All implementations
// must be safe for concurrent use.
type BilibiliAPI interface {
	Profile(ctx context.Context, uid string) (*models.BilibiliProfile, error)
	RecentVideos(ctx context.Context, uid string, limit int) ([]models.VideoItem, error)
	VtuberRank(ctx context.Context, page int) ([]models.Candidate, error)
	PopularRank(ctx context.Context, page int) ([]models.Candidate, error)
	RisingRank(ctx context.Context, page int) ([]models.Candidate, error)
}

// YoutubeAPI is the target-platform collaborator.
type YoutubeAPI interface {
	Channel(ctx context.Context, id string) (*models.YoutubeChannel, error)
	RecentVideos(ctx context.Context, id string, limit int) ([]models.VideoItem, error)
	SearchChannel(ctx context.Context, name string) (string, error)
}

// FetchError marks a failure reaching a platform API. The verifier
// downgrades any attempt hitting one of these to a manual-review
// result instead of propagating it.
type FetchError struct {
	Platform string
	Op       string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Platform, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
