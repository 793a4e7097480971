package clients

import (
	"vtlink/internal/ratelimit"
	"vtlink/internal/structures"
)

// NewBilibiliLimiter builds the single rate limiter shared by every
// bilibili call. One in-flight request, fixed gap between requests.
func NewBilibiliLimiter(conf *structures.Config) *ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(conf.Bilibili.RequestDelay, 0)
}
