package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"vtlink/internal/structures"
	"vtlink/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYoutubeClient(t *testing.T, handler http.Handler) YoutubeAPI {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	conf := &structures.Config{
		Youtube: structures.YoutubeConfig{
			BaseURL: srv.URL,
			APIKey:  "test-key",
		},
	}
	return NewYoutubeClient(conf, &testutil.MockLogger{})
}

func TestYoutubeChannel(t *testing.T) {
	client := newYoutubeClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "snippet,statistics,status", r.URL.Query().Get("part"))
		_, _ = w.Write([]byte(`{"items":[{
			"id":"UCabc",
			"snippet":{"title":"Tester Ch.","description":"bilibili: space.bilibili.com/42","thumbnails":{"default":{"url":"http://img/t.png"}}},
			"statistics":{"subscriberCount":"2500"},
			"status":{"isVerified":true}
		}]}`))
	}))

	ch, err := client.Channel(context.Background(), "UCabc")
	require.NoError(t, err)
	assert.Equal(t, "UCabc", ch.ID)
	assert.Equal(t, "Tester Ch.", ch.Title)
	assert.Equal(t, "http://img/t.png", ch.Avatar)
	assert.Equal(t, 2500, ch.Subscribers)
	assert.True(t, ch.Verified)
}

func TestYoutubeChannel_MissingIsFetchError(t *testing.T) {
	client := newYoutubeClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	_, err := client.Channel(context.Background(), "UCmissing")
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "youtube", fe.Platform)
	assert.Equal(t, "channel", fe.Op)
}

func TestYoutubeChannel_HttpErrorIsFetchError(t *testing.T) {
	client := newYoutubeClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.Channel(context.Background(), "UCabc")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
}

func TestYoutubeRecentVideos(t *testing.T) {
	client := newYoutubeClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "UCabc", r.URL.Query().Get("channelId"))
		assert.Equal(t, "3", r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(`{"items":[{"snippet":{"title":"Karaoke Night"}},{"snippet":{"title":"Q&A Stream"}}]}`))
	}))

	videos, err := client.RecentVideos(context.Background(), "UCabc", 3)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "Q&A Stream", videos[1].Title)
}

func TestYoutubeSearchChannel(t *testing.T) {
	client := newYoutubeClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Tester", r.URL.Query().Get("q"))
		assert.Equal(t, "channel", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(`{"items":[{"snippet":{"channelId":"UCfound"}}]}`))
	}))

	id, err := client.SearchChannel(context.Background(), "Tester")
	require.NoError(t, err)
	assert.Equal(t, "UCfound", id)
}

func TestYoutubeSearchChannel_EmptyResultIsNotError(t *testing.T) {
	client := newYoutubeClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	id, err := client.SearchChannel(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Empty(t, id)
}
