package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"vtlink/internal/models"
	"vtlink/internal/providers"
	"vtlink/internal/structures"

	json "github.com/goccy/go-json"
)

const defaultTimeout = 10 * time.Second

// YoutubeClient talks to the YouTube Data API. No rate limiter here:
// the quota model is a daily budget per key, not a per-second ceiling.
type YoutubeClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  providers.Logger
}

func NewYoutubeClient(conf *structures.Config, logger providers.Logger) YoutubeAPI {
	timeout := conf.Youtube.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &YoutubeClient{
		baseURL: conf.Youtube.BaseURL,
		apiKey:  conf.Youtube.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *YoutubeClient) get(ctx context.Context, op, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{Platform: "youtube", Op: op, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warnf(providers.TypeScan, "youtube %s failed: %s", op, err)
		return &FetchError{Platform: "youtube", Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		c.logger.Warnf(providers.TypeScan, "youtube %s failed: %s", op, err)
		return &FetchError{Platform: "youtube", Op: op, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Platform: "youtube", Op: op, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Platform: "youtube", Op: op, Err: err}
	}
	return nil
}

type ytChannelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Thumbnails  struct {
			Default struct {
				URL string `json:"url"`
			} `json:"default"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
	} `json:"statistics"`
	Status struct {
		IsVerified bool `json:"isVerified"`
	} `json:"status"`
}

func (c *YoutubeClient) Channel(ctx context.Context, id string) (*models.YoutubeChannel, error) {
	var resp struct {
		Items []ytChannelItem `json:"items"`
	}
	params := url.Values{
		"part": {"snippet,statistics,status"},
		"id":   {id},
	}
	if err := c.get(ctx, "channel", "/channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, &FetchError{Platform: "youtube", Op: "channel", Err: fmt.Errorf("channel %s not found", id)}
	}

	item := resp.Items[0]
	subs, _ := strconv.Atoi(item.Statistics.SubscriberCount)
	return &models.YoutubeChannel{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Avatar:      item.Snippet.Thumbnails.Default.URL,
		Description: item.Snippet.Description,
		Subscribers: subs,
		Verified:    item.Status.IsVerified,
	}, nil
}

func (c *YoutubeClient) RecentVideos(ctx context.Context, id string, limit int) ([]models.VideoItem, error) {
	var resp struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	params := url.Values{
		"part":       {"snippet"},
		"channelId":  {id},
		"order":      {"date"},
		"type":       {"video"},
		"maxResults": {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "videos", "/search", params, &resp); err != nil {
		return nil, err
	}

	videos := make([]models.VideoItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		videos = append(videos, models.VideoItem{Title: item.Snippet.Title})
	}
	return videos, nil
}

// SearchChannel resolves a display name to the best-matching channel
// id. Empty result means nothing matched, not an error.
func (c *YoutubeClient) SearchChannel(ctx context.Context, name string) (string, error) {
	var resp struct {
		Items []struct {
			Snippet struct {
				ChannelID string `json:"channelId"`
			} `json:"snippet"`
		} `json:"items"`
	}
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"channel"},
		"q":          {name},
		"maxResults": {"1"},
	}
	if err := c.get(ctx, "search", "/search", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Snippet.ChannelID, nil
}
