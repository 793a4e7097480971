package controllers

import (
	"net/http"
	"vtlink/internal/models"
	"vtlink/internal/providers"
	"vtlink/internal/services"
	"vtlink/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.MappingServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	limiter *limiterPool
}

func NewApiController(conf *structures.Config, logger providers.Logger, service services.MappingServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
		limiter: newLimiterPool(conf.Submission.HourlyLimit),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// Submit accepts a user-submitted identity pair. Validation rejects
// malformed identifiers before any ticket is filed; the per-client
// ceiling turns excess traffic into a distinct 429 outcome.
func (ac *ApiController) Submit(w http.ResponseWriter, r *http.Request) {
	if !ac.limiter.Allow(clientKey(r)) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req models.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	v := validate.Struct(&req)
	if !v.Validate() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": v.Errors.All()})
		return
	}

	ticket, err := ac.service.SubmitTicket(&req)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Ticket filing failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"ticketRef": ticket.Ref})
}

// GetMapping resolves a mapping from either direction: ?uid= for
// bilibili, ?channel= for YouTube. Served from the TTL cache when
// possible.
func (ac *ApiController) GetMapping(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	channel := r.URL.Query().Get("channel")

	var cacheKey, storeName string
	var lookup func(string) (*models.Mapping, error)
	var id string
	switch {
	case uid != "":
		cacheKey, id, lookup = "b:"+uid, uid, ac.service.LookupByBilibili
		storeName = "bilibili"
	case channel != "":
		cacheKey, id, lookup = "y:"+channel, channel, ac.service.LookupByYoutube
		storeName = "youtube"
	default:
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	ac.metrics.IncStoreReads(storeName)
	mapping, err := lookup(id)
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Lookup %s failed: %s", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if mapping == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	gson, err := json.Marshal(mapping)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// Unlink removes a confirmed mapping in both directions and drops both
// cached copies, so a re-read misses instead of serving the deleted
// record until TTL expiry.
func (ac *ApiController) Unlink(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	mapping, err := ac.service.DeleteMapping(uid)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Unlink %s failed: %s", uid, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if mapping == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ac.cache.Del("b:" + mapping.BilibiliUID)
	ac.cache.Del("y:" + mapping.YoutubeChannelID)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": mapping.BilibiliUID})
}
