package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"vtlink/internal/models"
	"vtlink/internal/providers"
	"vtlink/internal/ratelimit"
	"vtlink/internal/structures"

	json "github.com/goccy/go-json"
)

// BilibiliClient talks to the bilibili web API. Every request is
// funneled through the rate limiter: bilibili throttles aggressively
// per caller, so one request at a time with a fixed gap is the whole
// policy.
type BilibiliClient struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.RateLimiter
	logger  providers.Logger
}

func NewBilibiliClient(conf *structures.Config, limiter *ratelimit.RateLimiter, logger providers.Logger) BilibiliAPI {
	timeout := conf.Bilibili.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &BilibiliClient{
		baseURL: conf.Bilibili.BaseURL,
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger,
	}
}

type biliEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *BilibiliClient) get(ctx context.Context, op, path string, out any) error {
	_, err := c.limiter.Do(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		var env biliEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, err
		}
		if env.Code != 0 {
			return nil, fmt.Errorf("api code %d: %s", env.Code, env.Message)
		}
		return nil, json.Unmarshal(env.Data, out)
	})
	if err != nil {
		c.logger.Warnf(providers.TypeScan, "bilibili %s failed: %s", op, err)
		return &FetchError{Platform: "bilibili", Op: op, Err: err}
	}
	return nil
}

func (c *BilibiliClient) Profile(ctx context.Context, uid string) (*models.BilibiliProfile, error) {
	var info struct {
		Mid  int64  `json:"mid"`
		Name string `json:"name"`
		Face string `json:"face"`
		Sign string `json:"sign"`
	}
	if err := c.get(ctx, "profile", "/x/space/acc/info?mid="+uid, &info); err != nil {
		return nil, err
	}

	var rel struct {
		Follower int `json:"follower"`
	}
	if err := c.get(ctx, "relation", "/x/relation/stat?vmid="+uid, &rel); err != nil {
		return nil, err
	}

	return &models.BilibiliProfile{
		UID:       strconv.FormatInt(info.Mid, 10),
		Name:      info.Name,
		Avatar:    info.Face,
		Sign:      info.Sign,
		Followers: rel.Follower,
	}, nil
}

func (c *BilibiliClient) RecentVideos(ctx context.Context, uid string, limit int) ([]models.VideoItem, error) {
	var data struct {
		List struct {
			Vlist []struct {
				Title string `json:"title"`
			} `json:"vlist"`
		} `json:"list"`
	}
	path := fmt.Sprintf("/x/space/arc/search?mid=%s&ps=%d&pn=1", uid, limit)
	if err := c.get(ctx, "videos", path, &data); err != nil {
		return nil, err
	}

	videos := make([]models.VideoItem, 0, len(data.List.Vlist))
	for _, v := range data.List.Vlist {
		videos = append(videos, models.VideoItem{Title: v.Title})
	}
	return videos, nil
}

func (c *BilibiliClient) VtuberRank(ctx context.Context, page int) ([]models.Candidate, error) {
	return c.rank(ctx, "vtuber_rank", fmt.Sprintf("/x/web-interface/ranking/v2?rid=%d&pn=%d", ridVtuber, page))
}

func (c *BilibiliClient) PopularRank(ctx context.Context, page int) ([]models.Candidate, error) {
	return c.rank(ctx, "popular_rank", fmt.Sprintf("/x/web-interface/popular?pn=%d", page))
}

func (c *BilibiliClient) RisingRank(ctx context.Context, page int) ([]models.Candidate, error) {
	return c.rank(ctx, "rising_rank", fmt.Sprintf("/x/web-interface/ranking/v2?rid=%d&type=rookie&pn=%d", ridVtuber, page))
}

func (c *BilibiliClient) rank(ctx context.Context, op, path string) ([]models.Candidate, error) {
	var data struct {
		List []struct {
			Owner struct {
				Mid  int64  `json:"mid"`
				Name string `json:"name"`
			} `json:"owner"`
		} `json:"list"`
	}
	if err := c.get(ctx, op, path, &data); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(data.List))
	for _, item := range data.List {
		candidates = append(candidates, models.Candidate{
			UID:  strconv.FormatInt(item.Owner.Mid, 10),
			Name: item.Owner.Name,
		})
	}
	return candidates, nil
}

// ridVtuber is bilibili's category id for the virtual-uploader zone.
const ridVtuber = 9
